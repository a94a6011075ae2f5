package engine

// Identity is who the inbound event came from. The telegram ID keys the
// session; the names are only carried into rows for provenance.
type Identity struct {
	TelegramID string
	LastName   string
	FirstName  string
}

// Event is the inbound union delivered by the transport.
type Event interface{ isEvent() }

type Command struct{ Text string }

type Location struct{ Lat, Lon float64 }

type Contact struct{ Phone string }

// Photo references the proof image only by the transport's opaque token;
// the image itself is never fetched or stored.
type Photo struct{ Token string }

func (Command) isEvent()  {}
func (Location) isEvent() {}
func (Contact) isEvent()  {}
func (Photo) isEvent()    {}

// Keyboard selects which reply markup the transport should render.
type Keyboard int

const (
	KeyboardNone Keyboard = iota
	KeyboardContact
	KeyboardMain
)

// Reply is the single outbound response every event resolves into.
type Reply struct {
	Text     string
	Keyboard Keyboard
}

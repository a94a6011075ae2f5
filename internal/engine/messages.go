package engine

import "fmt"

// User-facing texts, in the wording of the bot this grew out of.
const (
	BtnStart   = "🟢 Ish boshlandi"
	BtnEnd     = "🔴 Ish tugadi"
	BtnMonthly = "📊 Oylik hisobot"

	msgAskPhone       = "📱 Telefon raqamingizni yuboring (pastdagi tugma orqali)."
	msgGreeting       = "Bot ishlayapti ✅"
	msgAuthorized     = "✅ Xush kelibsiz! Ish boshlash uchun tugmani bosing."
	msgAlreadyAuthed  = "✅ Siz allaqachon ro'yxatdan o'tgansiz."
	msgAskLocation    = "📍 Lokatsiya yuboring"
	msgAskSelfie      = "📸 Selfie yuborishingiz mumkin"
	msgAlreadyStarted = "⚠️ Bugun ish allaqachon boshlangan. Tugatish uchun \"" + BtnEnd + "\" ni bosing."
	msgStartFirst     = "⚠️ Avval ishni boshlang: \"" + BtnStart + "\""
	msgStarted        = "✅ Ish boshlandi!"
	msgEnded          = "✅ Ish tugadi"
	msgTransient      = "⚠️ Xatolik yuz berdi, birozdan so'ng qayta urinib ko'ring."
	msgUnknown        = "Tushunarsiz buyruq. \"" + BtnStart + "\" yoki \"" + BtnEnd + "\" dan foydalaning."
	msgStatsLater     = "Hisobot hozircha mavjud emas, keyinroq urinib ko'ring."
	msgStrayLocation  = "Lokatsiya hozir kerak emas."
)

func msgDenied(normalized string) string {
	return fmt.Sprintf("❌ Raqamingiz ro'yxatda topilmadi: %s\nAdministratorga murojaat qiling.", normalized)
}

func msgSelfieAccepted(proofID string) string {
	return fmt.Sprintf("📸 Selfie qabul qilindi (ref: %s)", proofID)
}

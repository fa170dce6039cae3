// Package i18n holds the small set of user-visible strings the server
// writes into data (last-message previews, call log text, auto replies).
// Full interface localization lives in the clients; only strings that
// get persisted or pushed need translating here.
package i18n

// Lang is a two-letter language code. Bengali is the default.
type Lang string

const (
	LangBengali Lang = "bn"
	LangEnglish Lang = "en"
)

// Normalize maps unknown codes to the default language
func Normalize(code string) Lang {
	if code == string(LangEnglish) {
		return LangEnglish
	}
	return LangBengali
}

type labelSet struct {
	imageSent    string
	voiceSent    string
	missedCall   string
	videoCall    string
	audioCall    string
	rejectedCall string
	autoReply    string
}

var labels = map[Lang]labelSet{
	LangBengali: {
		imageSent:    "📷 ছবি পাঠানো হয়েছে",
		voiceSent:    "🎤 ভয়েস মেসেজ পাঠানো হয়েছে",
		missedCall:   "📞 মিসড কল",
		videoCall:    "📹 ভিডিও কল",
		audioCall:    "📞 অডিও কল",
		rejectedCall: "📞 কল প্রত্যাখ্যাত",
		autoReply:    "ধন্যবাদ আপনার মেসেজের জন্য! আমি একটু পরে উত্তর দেব। 😊",
	},
	LangEnglish: {
		imageSent:    "📷 Photo sent",
		voiceSent:    "🎤 Voice message sent",
		missedCall:   "📞 Missed call",
		videoCall:    "📹 Video call",
		audioCall:    "📞 Audio call",
		rejectedCall: "📞 Call declined",
		autoReply:    "Thanks for your message! I'll reply in a bit. 😊",
	},
}

// ImageSent is the last-message preview for an image message
func ImageSent(l Lang) string { return labels[l].imageSent }

// VoiceSent is the last-message preview for an audio message
func VoiceSent(l Lang) string { return labels[l].voiceSent }

// MissedCall is the preview and log text for an unanswered call
func MissedCall(l Lang) string { return labels[l].missedCall }

// VideoCall is the log text for a completed video call
func VideoCall(l Lang) string { return labels[l].videoCall }

// AudioCall is the log text for a completed audio call
func AudioCall(l Lang) string { return labels[l].audioCall }

// RejectedCall is the log text for a declined call
func RejectedCall(l Lang) string { return labels[l].rejectedCall }

// AutoReply is the canned response sent on behalf of inactive users
func AutoReply(l Lang) string { return labels[l].autoReply }

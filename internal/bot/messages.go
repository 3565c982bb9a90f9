package bot

const (
	msgWelcome = "Welcome to CryptoAnalyst Bot! 🚀\n\n" +
		"I can help you analyze cryptocurrencies with technical analysis and charts. " +
		"Select an option below to get started, or enter your text and let the agent help you out 🤖!"
	msgAdminWelcome   = "Welcome to CryptoAnalyst Bot Admin Panel\n\nHow can I help you? Select an option below"
	msgNoPermission   = "You don't have permission to use this bot."
	msgNotAuthorized  = "You are not authorized to use admin commands."
	msgGenericFailure = "Something went wrong, please try again later."
	msgAskCoin        = "Which coin would you like me to look at? Send me a name or symbol."
	msgUnknownCommand = "I don't know that command. Try /start."
)

var translations = map[string]map[string]string{
	"ar": {
		msgNoPermission:  "ليس لديك إذن لاستخدام هذا البوت.",
		msgNotAuthorized: "غير مصرح لك باستخدام أوامر المشرف.",
	},
}

// localize returns the message in the user's language, falling back to the
// English text itself.
func localize(language, msg string) string {
	if byLang, ok := translations[language]; ok {
		if translated, ok := byLang[msg]; ok {
			return translated
		}
	}
	return msg
}

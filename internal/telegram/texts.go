package telegram

// UI texts in English
const (
	welcomeFmt = "Hi %s!\n\n" +
		"You are now on the meal reservation reminder list. ✅🥗\n\n" +
		"Enable notifications for this bot so you never miss a reminder. 🛎 😊\n\n" +
		"Use /help to see how the bot works."

	alreadyRegisteredText = "You are already registered. 😊"

	registrationFailedText = "Something went wrong during registration. Please try again."

	helpText = "This bot reminds you three times a week to reserve next week's meals. 👌\n" +
		"On the day the new menu goes up (usually Monday) 📌\n" +
		"and on Tuesday and Wednesday evenings 🌌\n\n" +
		"Every reminder carries a button — press it once you have reserved and " +
		"you won't hear from the bot again that week. 🥘👍"
)

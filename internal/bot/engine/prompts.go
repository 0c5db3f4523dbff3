package engine

import (
	"fmt"

	"github.com/dmitrijs2005/winelog/internal/bot/models"
)

// Reply texts, centralized so tests can compare against the constants.
const (
	PromptPhoto      = "Please photograph the bottle so that the label is visible"
	PromptName       = "What is the wine called?"
	PromptRegion     = "What is its region of origin?"
	PromptGrapes     = "Which grape varieties is it made from?"
	PromptVintage    = "Which year's harvest is it from? Digits only, or send a dash if you don't know"
	PromptExperience = "Finally, what are your impressions? Write freely."

	ReplyVintageInvalid = "Sorry, the message should contain digits only, or send a dash if you don't know"

	ReplyDone       = "All set, the record is in the journal"
	ReplySaveFailed = "Sorry, I couldn't save the record. Your answers are kept, please send your impressions once more to retry"

	ReplyCancelled       = "Okay, not this time"
	ReplyNothingToCancel = "You haven't asked me to record anything right now"

	ReplyHelp = "My name is Winey, and here is what I can do:\n\n" +
		"/newrecord - I will help you remember which wine it was and how it made you feel. " +
		"I will ask you to photograph the label, tell me the name, region, grape varieties " +
		"and vintage year, and then describe your impressions in your own words.\n\n" +
		"/cancel or the single word \"cancel\" - tell me this if you change your mind."

	replyGreetingNew = "Hello, my name is Winey.\n" +
		"Call me with the /newrecord command next time you are having a good time over a glass of wine.\n" +
		"I will help you remember which wine it was and how it made you feel; all you need to do is:\n" +
		"- photograph the label\n" +
		"- tell me the wine's name, region of origin, grape varieties and vintage year\n" +
		"- describe your impressions and associations in your own words\n\n" +
		"Send /cancel or the single word \"cancel\" if you change your mind about recording anything."
)

func greetingReturning(firstName string) string {
	return fmt.Sprintf("Hi, %s, it is always nice to hear from you. "+
		"I cannot do all that much yet, but I can tell you about it with /help.", firstName)
}

func replyVintageInFuture(currentYear, year int64) string {
	return fmt.Sprintf("It is %d out there, and you wrote %d... "+
		"Something is off, please try again", currentYear, year)
}

// promptFor returns the prompt that asks for the given step's answer.
// Re-sending it is the idempotent response to wrong-shape input.
func promptFor(step models.Step) string {
	switch step {
	case models.StepPhoto:
		return PromptPhoto
	case models.StepName:
		return PromptName
	case models.StepRegion:
		return PromptRegion
	case models.StepGrapes:
		return PromptGrapes
	case models.StepVintage:
		return PromptVintage
	case models.StepExperience:
		return PromptExperience
	default:
		return ""
	}
}

package telemetry

// Event names. Properties describe shape and counts only, never content.
const (
	EventConversationStarted = "conversation_started"
	EventFrameworkSelected   = "framework_selected"
	EventPromptGenerated     = "prompt_generated"
	EventPromptAdjusted      = "prompt_adjusted"
	EventConfigValidated     = "config_validated"
)

// TrackFrameworkSelected records which framework was picked. Framework
// names are catalog identifiers, not user content.
func TrackFrameworkSelected(c Client, frameworkEn string) {
	c.Track(EventFrameworkSelected, Properties{"framework": frameworkEn})
}

// TrackPromptGenerated records a completed generation with its round count
// and prompt length, not the prompt itself.
func TrackPromptGenerated(c Client, frameworkEn string, rounds, promptLen int) {
	c.Track(EventPromptGenerated, Properties{
		"framework":     frameworkEn,
		"rounds":        rounds,
		"prompt_length": promptLen,
	})
}

// TrackPromptAdjusted records post-completion regenerations by count only.
func TrackPromptAdjusted(c Client, frameworkEn string, adjustments int) {
	c.Track(EventPromptAdjusted, Properties{
		"framework":   frameworkEn,
		"adjustments": adjustments,
	})
}

// TrackConfigValidated records the outcome of a connectivity probe.
func TrackConfigValidated(c Client, service string, ok bool) {
	c.Track(EventConfigValidated, Properties{"service": service, "success": ok})
}

package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/servicedesk-ai/assistant-backend/internal/entity"
)

func newTestClassifier() *Classifier {
	return NewClassifier(Config{ImplicitSignalMin: 2})
}

func TestParseConfirmCommand(t *testing.T) {
	cmd, ok := ParseConfirmCommand("confirm a1b2c3d4")
	require.True(t, ok)
	assert.Equal(t, "a1b2c3d4", cmd.ActionID)
	assert.False(t, cmd.Cancel)
}

func TestParseConfirmCommandCaseAndWhitespace(t *testing.T) {
	cmd, ok := ParseConfirmCommand("  CONFIRM A1B2C3D4  ")
	require.True(t, ok)
	assert.Equal(t, "a1b2c3d4", cmd.ActionID)
}

func TestParseCancelCommand(t *testing.T) {
	cmd, ok := ParseConfirmCommand("cancel a1b2c3d4")
	require.True(t, ok)
	assert.True(t, cmd.Cancel)
	assert.Equal(t, "a1b2c3d4", cmd.ActionID)
}

func TestParseConfirmCommandRejectsEmbeddedText(t *testing.T) {
	_, ok := ParseConfirmCommand("please confirm a1b2c3d4 for me")
	assert.False(t, ok)

	_, ok = ParseConfirmCommand("confirm")
	assert.False(t, ok)
}

func TestClassifyExplicitIncident(t *testing.T) {
	c := newTestClassifier()
	cases := []string{
		"create an incident for the mail outage",
		"please open a ticket",
		"raise a new incident",
		"report an issue with the VPN gateway",
	}
	for _, m := range cases {
		assert.Equal(t, entity.IntentActionIncident, c.Classify(m), "message %q", m)
	}
}

func TestClassifyExplicitWorkOrder(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.IntentActionWorkOrder, c.Classify("create a work order for the server rack move"))
	assert.Equal(t, entity.IntentActionWorkOrder, c.Classify("submit a workorder for cabling"))
}

func TestClassifyServiceRequest(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.IntentServiceRequest, c.Classify("I need a new laptop for the intern"))
	assert.Equal(t, entity.IntentServiceRequest, c.Classify("grant me access to the finance share"))
}

func TestClassifyProblemLanguageSuppressesServiceRequest(t *testing.T) {
	c := newTestClassifier()
	// Repair vocabulary means the user wants a fix, not new hardware.
	got := c.Classify("I need a new laptop because mine is broken and keeps crashing")
	assert.NotEqual(t, entity.IntentServiceRequest, got)
	assert.Equal(t, entity.IntentActionIncident, got)
}

func TestClassifyImplicitSignalsReachThreshold(t *testing.T) {
	c := newTestClassifier()
	// "not working" plus "error" is two distinct signals.
	assert.Equal(t, entity.IntentActionIncident, c.Classify("outlook is not working and shows an error on startup"))
}

func TestClassifySingleSignalIsAmbiguous(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.IntentAmbiguous, c.Classify("the printer seems broken"))
}

func TestClassifyQuestion(t *testing.T) {
	c := newTestClassifier()
	cases := []string{
		"how do I reset my password",
		"what is the wifi guest network name?",
		"explain the patch schedule",
	}
	for _, m := range cases {
		assert.Equal(t, entity.IntentQuestion, c.Classify(m), "message %q", m)
	}
}

func TestClassifyQuestionWithSignalsIsAmbiguous(t *testing.T) {
	c := newTestClassifier()
	got := c.Classify("why is the VPN down and failing for the whole team?")
	assert.Equal(t, entity.IntentAmbiguous, got)
}

func TestClassifyEmptyMessage(t *testing.T) {
	c := newTestClassifier()
	assert.Equal(t, entity.IntentNone, c.Classify("   "))
}

func TestClassifyConfigurableThreshold(t *testing.T) {
	strict := NewClassifier(Config{ImplicitSignalMin: 3})
	assert.Equal(t, entity.IntentAmbiguous, strict.Classify("outlook is not working and shows an error on startup"))

	loose := NewClassifier(Config{ImplicitSignalMin: 1})
	assert.Equal(t, entity.IntentActionIncident, loose.Classify("the printer seems broken"))
}

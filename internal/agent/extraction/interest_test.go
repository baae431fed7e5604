package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/agenttest"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/lead"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/model"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/oracle"
	"github.com/stretchr/testify/assert"
)

func TestInterestColdOnFirstRefusal(t *testing.T) {
	o := agenttest.NewOracle().Reply(oracle.CallSiteInterest, "Hot")
	c := NewInterestClassifier(o, 5)

	level := c.Classify(context.Background(), transcriptOf("greeting", "not now, sorry", "ok", "fine, go on"), lead.NewStore("l1"))

	assert.Equal(t, model.InterestCold, level)
	assert.Zero(t, o.CallsFor(oracle.CallSiteInterest))
}

func TestInterestRefusalNeedsWholeWord(t *testing.T) {
	o := agenttest.NewOracle().Reply(oracle.CallSiteInterest, "warm")
	c := NewInterestClassifier(o, 5)

	level := c.Classify(context.Background(), transcriptOf("greeting", "yes, I know what I want", "q", "a"), lead.NewStore("l1"))

	assert.Equal(t, model.InterestWarm, level)
	assert.Equal(t, 1, o.CallsFor(oracle.CallSiteInterest))
}

func TestInterestDefaultsToWarm(t *testing.T) {
	tr := transcriptOf("greeting", "yes", "q", "a")

	failing := agenttest.NewOracle().Fail(oracle.CallSiteInterest, errors.New("down"))
	assert.Equal(t, model.InterestWarm, NewInterestClassifier(failing, 5).Classify(context.Background(), tr, lead.NewStore("l1")))

	vague := agenttest.NewOracle().Reply(oracle.CallSiteInterest, "hard to say")
	assert.Equal(t, model.InterestWarm, NewInterestClassifier(vague, 5).Classify(context.Background(), tr, lead.NewStore("l1")))
}

func TestInterestWindowLimitsContext(t *testing.T) {
	o := agenttest.NewOracle().Reply(oracle.CallSiteInterest, "Cold")
	tr := transcriptOf("greeting", "yes", "first-question", "answer", "second-question", "answer two")

	level := NewInterestClassifier(o, 2).Classify(context.Background(), tr, lead.NewStore("l1"))

	assert.Equal(t, model.InterestCold, level)
	calls := o.Calls()
	assert.Contains(t, calls[0].Prompt, "second-question")
	assert.NotContains(t, calls[0].Prompt, "first-question")
}

func TestNormalizeInterestPrecedence(t *testing.T) {
	assert.Equal(t, model.InterestHot, NormalizeInterest("hot or warm"))
	assert.Equal(t, model.InterestWarm, NormalizeInterest("WARM"))
	assert.Equal(t, model.InterestCold, NormalizeInterest("cold"))
	assert.Empty(t, NormalizeInterest("unsure"))
}

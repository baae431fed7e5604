package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Chative-core-poc-v1/leadqual/internal/agent/agenttest"
	"github.com/Chative-core-poc-v1/leadqual/internal/agent/dialogue"
)

func TestChatLoop(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	sess := dialogue.NewSession("c1", dialogue.Deps{Oracle: agenttest.NewOracle(), Sink: &agenttest.Sink{}})

	var out bytes.Buffer
	err := chatLoop(cmd, sess, strings.NewReader("yes\n\nquit\nnever read\n"), &out)
	require.NoError(t, err)

	got := out.String()
	assert.Contains(t, got, "Agent: Hi, this is Rachel from Premium Properties.")
	assert.Contains(t, got, "Agent: "+dialogue.QualifyingQuestion)
	assert.Equal(t, 2, strings.Count(got, "Agent: "))
}

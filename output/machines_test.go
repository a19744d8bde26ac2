package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyfleet/skyctl/fanout"
	"github.com/skyfleet/skyctl/types"
)

var testMachines = []types.Machine{
	{
		ID:         "d891f2a4b03e58",
		Name:       "web-1",
		Datacenter: "us-west",
		State:      types.StateStarted,
		Image:      "registry.skyfleet.dev/web:v4",
		PrivateIP:  "10.0.1.4",
		CreatedAt:  time.Now().Add(-26 * time.Hour),
	},
	{
		ID:         "e4873de2a91c02",
		Name:       "web-2",
		Datacenter: "us-east",
		State:      types.StateStopped,
		Image:      "registry.skyfleet.dev/web:v4",
		CreatedAt:  time.Now().Add(-3 * time.Minute),
	},
}

func TestParseFormat(t *testing.T) {
	for _, valid := range []string{"table", "json", "csv"} {
		format, err := ParseFormat(valid)
		require.NoError(t, err)
		assert.Equal(t, Format(valid), format)
	}

	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestMachines_Table(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Machines(&buf, FormatTable, testMachines))

	out := buf.String()
	assert.Contains(t, out, "DATACENTER")
	assert.Contains(t, out, "web-1")
	assert.Contains(t, out, "us-west")
	assert.Contains(t, out, "us-east")
}

func TestMachines_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Machines(&buf, FormatJSON, testMachines))

	var payload struct {
		Machines []types.Machine `json:"machines"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	require.Len(t, payload.Machines, 2)
	assert.Equal(t, "us-west", payload.Machines[0].Datacenter)
}

func TestMachines_CSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Machines(&buf, FormatCSV, testMachines))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "id,name,datacenter,state,image,ip,created_at", lines[0])
	assert.Contains(t, lines[1], "d891f2a4b03e58")
}

func TestFailures(t *testing.T) {
	var buf bytes.Buffer
	Failures(&buf, []*fanout.DCError{
		{Datacenter: "us-west", Kind: fanout.KindTimeout, Err: errors.New("deadline exceeded")},
		{Datacenter: "eu-central", Kind: fanout.KindAuth, Err: errors.New("token rejected")},
	})

	out := buf.String()
	assert.Contains(t, out, "2 datacenter(s) failed")
	assert.Contains(t, out, "us-west")
	assert.Contains(t, out, "timeout")
	assert.Contains(t, out, "eu-central")
	assert.Contains(t, out, "token rejected")

	buf.Reset()
	Failures(&buf, nil)
	assert.Empty(t, buf.String())
}

func TestFormatAge(t *testing.T) {
	assert.Equal(t, "", formatAge(time.Time{}))
	assert.Equal(t, "30s", formatAge(time.Now().Add(-30*time.Second)))
	assert.Equal(t, "5m", formatAge(time.Now().Add(-5*time.Minute)))
	assert.Equal(t, "6h", formatAge(time.Now().Add(-6*time.Hour)))
	assert.Equal(t, "3d", formatAge(time.Now().Add(-80*time.Hour)))
}

package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wekeepgrowing/semo-fleet/internal/domain/entity"
)

func TestPeriod(t *testing.T) {
	now := time.Date(2026, 3, 18, 12, 0, 0, 0, time.UTC)
	t.Cleanup(func() { perfFrom, perfTo = "", "" })

	from, to, err := period(now)
	require.NoError(t, err)
	assert.Equal(t, now, to)
	assert.Equal(t, now.AddDate(0, 0, -30), from)

	perfFrom, perfTo = "2026-03-01", "2026-03-07"
	from, to, err = period(now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2026, 3, 7, 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC), to)

	perfTo = "07.03.2026"
	_, _, err = period(now)
	assert.ErrorContains(t, err, "--to")
}

func TestRequireOwnerFlag(t *testing.T) {
	assert.Error(t, requireOwnerFlag(""))
	assert.NoError(t, requireOwnerFlag("owner-1"))
}

func TestDemo(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"demo", "--locale", "en", "--log-level", "error"})
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetArgs(nil)
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	var report demoReport
	require.NoError(t, json.Unmarshal(out.Bytes(), &report), out.String())

	require.NotNil(t, report.Compliance)
	assert.False(t, report.Compliance.IsCompliant)
	assert.Equal(t, 25, report.Compliance.Score)

	keys := make(map[string]bool)
	for _, issue := range report.Compliance.Issues {
		keys[issue.Key] = true
	}
	assert.True(t, keys["inspection:v-1:CRITICAL"])
	assert.True(t, keys["insurance:v-2:HIGH"])
	assert.True(t, keys["maintenance:v-2:MEDIUM"])
	assert.True(t, keys["out_of_service:v-3:MEDIUM"])
	assert.True(t, keys["driver_hours:d-2:CRITICAL"])

	require.Len(t, report.Rankings, 2)
	assert.Equal(t, "d-1", report.Rankings[0].DriverID)
	assert.NotEmpty(t, report.Alerts)
	require.NotNil(t, report.Audit)
	assert.EqualValues(t, 1, report.Audit.Total)
	assert.Equal(t, entity.AuditActionComplianceCheck, report.Audit.Entries[0].Action)
}

package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		input    string
		expected Period
		wantErr  bool
	}{
		{"day", PeriodDay, false},
		{"week", PeriodWeek, false},
		{"month", PeriodMonth, false},
		{"year", PeriodYear, false},
		{"", DefaultPeriod, false},
		{"quarter", "", true},
		{"Month", "", true},
	}

	for _, tt := range tests {
		got, err := ParsePeriod(tt.input)
		if tt.wantErr {
			assert.Error(t, err, "ParsePeriod(%q)", tt.input)
			continue
		}
		require.NoError(t, err, "ParsePeriod(%q)", tt.input)
		assert.Equal(t, tt.expected, got)
	}
}

func TestManualEntryInputValidate(t *testing.T) {
	valid := ManualEntryInput{
		Platform:    PlatformInstagram,
		MetricName:  "Seguidores",
		MetricValue: 15000,
		EnteredBy:   "Ana",
	}
	require.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*ManualEntryInput)
		field  string
	}{
		{
			name:   "missing platform",
			mutate: func(in *ManualEntryInput) { in.Platform = "" },
			field:  "platform",
		},
		{
			name:   "unknown platform",
			mutate: func(in *ManualEntryInput) { in.Platform = "tiktok" },
			field:  "platform",
		},
		{
			name:   "missing metric name",
			mutate: func(in *ManualEntryInput) { in.MetricName = "" },
			field:  "metric_name",
		},
		{
			name:   "zero metric value",
			mutate: func(in *ManualEntryInput) { in.MetricValue = 0 },
			field:  "metric_value",
		},
		{
			name:   "missing entered_by",
			mutate: func(in *ManualEntryInput) { in.EnteredBy = "" },
			field:  "entered_by",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			err := in.Validate()
			require.Error(t, err)

			var domainErr *DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, ValidationError, domainErr.Type)
			assert.Contains(t, domainErr.Details, tt.field)
		})
	}
}

func TestPlatformValid(t *testing.T) {
	for _, p := range ManualEntryPlatforms() {
		assert.True(t, p.Valid(), "platform %q", p)
	}
	assert.False(t, Platform("twitter").Valid(), "twitter has automated collection, not a manual entry platform")
	assert.False(t, Platform("").Valid())
}

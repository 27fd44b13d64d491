package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paulissoft/sync-datamodeler-config/internal/archive"
)

func sampleEntries() []archive.Entry {
	created := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	return []archive.Entry{
		{
			ID:        "19.2.0.100",
			CreatedAt: created,
			Manifest: &archive.Manifest{
				Version:     archive.ManifestVersion,
				CreatedAt:   created,
				SourceRoot:  "/opt/dm-19.2",
				LiveVersion: "19.2.0.100",
				ToolVersion: "1.0.0",
				Locations:   map[string]int{"types": 3, "system": 1},
			},
		},
		{
			ID:        "18.4.0.339",
			CreatedAt: created.Add(-24 * time.Hour),
			// No manifest: pre-existing archive directory.
		},
	}
}

func TestWriteListTabular(t *testing.T) {
	var buf bytes.Buffer
	if err := writeListTabular(&buf, "/backups", sampleEntries()); err != nil {
		t.Fatalf("writeListTabular() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"/backups", "19.2.0.100", "18.4.0.339", "/opt/dm-19.2", "4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteListTabular_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeListTabular(&buf, "/backups", nil); err != nil {
		t.Fatalf("writeListTabular() error = %v", err)
	}
	if !strings.Contains(buf.String(), "no archived versions") {
		t.Errorf("empty archive should say so:\n%s", buf.String())
	}
}

func TestWriteListJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeListJSON(&buf, sampleEntries()))

	var out []listEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out), "output should be valid JSON")
	require.Len(t, out, 2)

	assert.Equal(t, "19.2.0.100", out[0].ID)
	if assert.NotNil(t, out[0].FileCount) {
		assert.Equal(t, 4, *out[0].FileCount)
	}
	assert.Nil(t, out[1].FileCount, "entry without manifest should omit file_count")
}

func TestWriteListJSON_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := writeListJSON(&buf, nil); err != nil {
		t.Fatalf("writeListJSON() error = %v", err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty archive should encode as [], got %s", buf.String())
	}
}

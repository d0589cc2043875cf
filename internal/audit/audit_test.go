package audit

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(action, customer, details string) Entry {
	return Entry{
		Timestamp: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC),
		Action:    action,
		Customer:  customer,
		Details:   details,
	}
}

func TestAppend_CreatesFileWithHeader(t *testing.T) {
	dir := t.TempDir()
	log := New(dir)

	require.NoError(t, log.Append([]Entry{entry("customer.add", "Bob", "")}))

	data, err := os.ReadFile(filepath.Join(dir, "logs", "audit-log.csv"))
	require.NoError(t, err)
	assert.Contains(t, string(data), Header)
	assert.Contains(t, string(data), "customer.add,Bob")
}

func TestAppendRead_RoundTrip(t *testing.T) {
	log := New(t.TempDir())

	require.NoError(t, log.Append([]Entry{entry("tx.record", "Bob", "Deposit 100")}))
	require.NoError(t, log.Append([]Entry{entry("tx.remove", "", "id=1")}))

	entries, err := log.Read()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, "tx.record", entries[0].Action)
	assert.Equal(t, "Bob", entries[0].Customer)
	assert.Equal(t, "Deposit 100", entries[0].Details)
	assert.Equal(t, "tx.remove", entries[1].Action)
}

func TestRead_MissingFile(t *testing.T) {
	log := New(t.TempDir())

	entries, err := log.Read()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestUnmarshalEntry_FieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"too", "few"})
	require.Error(t, err)
}

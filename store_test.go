package bluechip

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	store := NewFileStore(dir)

	want := newTestState("1108.48", "10000",
		"MSFT", "8", "364.5375",
		"MC.PA", "2", "700.10",
		"MSFT", "0.5", "400",
	)
	require.NoError(t, store.Save(want))

	got, err := store.Load()
	require.NoError(t, err)
	require.Len(t, got.Positions, 3)
	for i := range want.Positions {
		assert.Equal(t, want.Positions[i].Ticker, got.Positions[i].Ticker)
		assert.True(t, want.Positions[i].Quantity.Equal(got.Positions[i].Quantity), "quantity %d", i)
		assert.True(t, want.Positions[i].PurchasePrice.Equal(got.Positions[i].PurchasePrice), "price %d", i)
	}
	assert.True(t, got.Cash.Equal(want.Cash))
	assert.True(t, got.TotalInvested.Equal(want.TotalInvested))

	cash, err := os.ReadFile(filepath.Join(dir, CashFile))
	require.NoError(t, err)
	assert.Equal(t, "1108.48\n", string(cash))

	// no temporary file left behind.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 3)
}

func TestFileStore_FirstRun(t *testing.T) {
	store := NewFileStore(t.TempDir())

	got, err := store.Load()
	require.NoError(t, err)
	assert.True(t, got.IsEmpty())
	assert.True(t, got.Cash.IsZero())
	assert.True(t, got.TotalInvested.IsZero())
}

func TestFileStore_LegacyFiles(t *testing.T) {
	dir := t.TempDir()
	csv := "\ufeffTicker,Quantité,Prix Achat ($ ou €)\nmsft,8,364.5375\n,,\nMC.PA,2,700\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, PositionsFile), []byte(csv), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, CashFile), []byte("1108.48"), 0o644))

	got, err := NewFileStore(dir).Load()
	require.NoError(t, err)
	require.Len(t, got.Positions, 2)
	assert.Equal(t, "MSFT", got.Positions[0].Ticker)
	assert.Equal(t, "MC.PA", got.Positions[1].Ticker)
	assert.True(t, got.Cash.Equal(dec("1108.48")))
	assert.True(t, got.TotalInvested.IsZero())
}

func TestFileStore_CorruptedAmount(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, CapitalFile), []byte("ten thousand"), 0o644))

	_, err := NewFileStore(dir).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), CapitalFile)
}

func TestDecodePositions(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr string
	}{
		{"empty file", "", 0, ""},
		{"header only", "Ticker,Quantity,PurchasePrice\n", 0, ""},
		{"any column order", "PurchasePrice,Ticker,Quantity\n300,MSFT,8\n", 1, ""},
		{"extra column", "Ticker,Quantity,PurchasePrice,Note\nMSFT,8,300,long term\n", 1, ""},
		{"missing column", "Ticker,Quantity\nMSFT,8\n", 0, "missing column"},
		{"bad quantity", "Ticker,Quantity,PurchasePrice\nMSFT,8,300\nV,eight,300\n", 0, "line 3"},
		{"bad price", "Ticker,Quantity,PurchasePrice\nMSFT,8,$300\n", 0, "invalid purchase price"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodePositions(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestEncodePositions(t *testing.T) {
	s := newTestState("0", "0", "MSFT", "8", "364.5375", "MC.PA", "2", "700")
	var b bytes.Buffer
	require.NoError(t, EncodePositions(&b, s.Positions))
	assert.Equal(t, "Ticker,Quantity,PurchasePrice\nMSFT,8,364.5375\nMC.PA,2,700\n", b.String())
}

func TestMemoryStore(t *testing.T) {
	var m MemoryStore
	s := newTestState("1", "2", "MSFT", "8", "364.5375")
	require.NoError(t, m.Save(s))
	assert.Equal(t, 1, m.Saves)

	got, err := m.Load()
	require.NoError(t, err)
	got.Positions[0].Ticker = "CHANGED"

	again, _ := m.Load()
	assert.Equal(t, "MSFT", again.Positions[0].Ticker)
}

package nnue

import (
	"bytes"
	"encoding/binary"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultNetworkDeterministic(t *testing.T) {
	a, b := DefaultNetwork(), DefaultNetwork()
	if *a != *b {
		t.Fatal("two default networks differ")
	}
	if a.FTWeights[0] == a.FTWeights[1] {
		t.Fatal("feature buckets share identical weights")
	}
}

func TestWeightsRoundTrip(t *testing.T) {
	saved := DefaultNetwork()
	var buf bytes.Buffer
	if err := saved.SaveTo(&buf); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := NewNetwork()
	if err := loaded.LoadFrom(&buf); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if *loaded != *saved {
		t.Fatal("round-tripped network differs from original")
	}
}

func TestWeightsFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.nnue")

	saved := DefaultNetwork()
	if err := saved.SaveWeights(path); err != nil {
		t.Fatalf("SaveWeights: %v", err)
	}

	loaded, err := LoadNetwork(path)
	if err != nil {
		t.Fatalf("LoadNetwork: %v", err)
	}
	if *loaded != *saved {
		t.Fatal("network loaded from file differs from original")
	}

	if _, err := LoadNetwork(filepath.Join(t.TempDir(), "missing.nnue")); err == nil {
		t.Fatal("missing file accepted")
	}
}

func TestLoadRejectsBadHeader(t *testing.T) {
	good := FileHeader{
		Magic:         MagicNumber,
		Version:       FormatVersion,
		InputSize:     InputSize,
		InputBuckets:  InputBuckets,
		L1:            L1Size,
		L2:            L2Size,
		OutputBuckets: OutputBuckets,
	}

	cases := []struct {
		name   string
		mutate func(*FileHeader)
		want   string
	}{
		{"magic", func(h *FileHeader) { h.Magic = 0xDEADBEEF }, "bad magic"},
		{"version", func(h *FileHeader) { h.Version = 99 }, "format version"},
		{"l1", func(h *FileHeader) { h.L1 = 512 }, "architecture mismatch"},
		{"buckets", func(h *FileHeader) { h.InputBuckets = 4 }, "architecture mismatch"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := good
			tc.mutate(&h)
			var buf bytes.Buffer
			if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
				t.Fatal(err)
			}
			err := NewNetwork().LoadFrom(&buf)
			if err == nil {
				t.Fatal("corrupt header accepted")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}

	t.Run("truncated", func(t *testing.T) {
		var buf bytes.Buffer
		if err := binary.Write(&buf, binary.LittleEndian, &good); err != nil {
			t.Fatal(err)
		}
		buf.Write(make([]byte, 100))
		if err := NewNetwork().LoadFrom(&buf); err == nil {
			t.Fatal("truncated body accepted")
		}
	})
}

func TestForwardStableAcrossCalls(t *testing.T) {
	var own, opp [L1Size]int16
	for i := range own {
		own[i] = int16(i%700) - 200
		opp[i] = int16((i*7)%700) - 350
	}

	for bucket := 0; bucket < OutputBuckets; bucket++ {
		first := testNet.Forward(&own, &opp, bucket)
		if again := testNet.Forward(&own, &opp, bucket); again != first {
			t.Fatalf("bucket %d: %d then %d", bucket, first, again)
		}
		if IsMateScore(first) {
			t.Fatalf("bucket %d: static output %d reached the mate band", bucket, first)
		}
	}

	// Forward must not scribble on its inputs.
	before := own
	testNet.Forward(&own, &opp, 0)
	if own != before {
		t.Fatal("Forward mutated an accumulator")
	}
}

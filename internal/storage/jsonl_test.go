package storage

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"binscope/internal/model"
)

func TestJsonlStoragePutSnapshots(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "snapshots.jsonl")
	sink := NewJsonlStorage(path)

	want := []model.BinSnapshot{
		{Pool: "0xaaaa", BinID: 8388608, Price: 1.0, LiquidityBase: 2.5, LiquidityQuote: 1.5, TotalLiquidity: 4.0, IsActive: true, ObservedAt: 1700000000},
		{Pool: "0xaaaa", BinID: 8388609, Price: 1.0025, TotalLiquidity: 0, ObservedAt: 1700000000},
	}

	if err := sink.PutSnapshots(context.Background(), want); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer file.Close()

	var got []model.BinSnapshot
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var snapshot model.BinSnapshot
		if err := json.Unmarshal(scanner.Bytes(), &snapshot); err != nil {
			t.Fatalf("unmarshal line: %v", err)
		}
		got = append(got, snapshot)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("scan output: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("snapshot mismatch: %+v != %+v", got, want)
	}
}

func TestJsonlStorageEmptyBatchWritesNothing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshots.jsonl")
	sink := NewJsonlStorage(path)

	if err := sink.PutSnapshots(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("empty batch must not create the file")
	}
}

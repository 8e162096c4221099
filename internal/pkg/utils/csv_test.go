package utils

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestEscapeCSVField(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{
			name:  "plain_value_unquoted",
			value: "Seoul",
			want:  "Seoul",
		},
		{
			name:  "comma_value_quoted",
			value: "Seoul, Korea",
			want:  `"Seoul, Korea"`,
		},
		{
			name:  "inner_quote_doubled",
			value: `say "hi"`,
			want:  `"say ""hi"""`,
		},
		{
			name:  "newline_quoted",
			value: "line1\nline2",
			want:  "\"line1\nline2\"",
		},
		{
			name:  "empty_value",
			value: "",
			want:  "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EscapeCSVField(tt.value); got != tt.want {
				t.Errorf("EscapeCSVField(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestWriteCSV(t *testing.T) {
	header := []string{"코드", "업체명", "상태"}
	rows := [][]string{
		{"COST-24-001", "Seoul, Korea", "진행"},
		{"COST-24-002", "Busan", "완료"},
	}

	data, err := WriteCSV(header, rows)
	if err != nil {
		t.Fatalf("WriteCSV() error = %v", err)
	}

	if !bytes.HasPrefix(data, UTF8BOM) {
		t.Error("WriteCSV() output missing UTF-8 BOM prefix")
	}

	body := string(bytes.TrimPrefix(data, UTF8BOM))
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("WriteCSV() line count = %d, want 3", len(lines))
	}
	if lines[0] != "코드,업체명,상태" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[1] != `COST-24-001,"Seoul, Korea",진행` {
		t.Errorf("comma value not quoted: %q", lines[1])
	}
	if lines[2] != "COST-24-002,Busan,완료" {
		t.Errorf("plain values should stay unquoted: %q", lines[2])
	}
}

func TestCSVFileName(t *testing.T) {
	now := time.Date(2024, 7, 15, 10, 30, 0, 0, time.UTC)
	got := CSVFileName("비용관리", now)
	want := "비용관리_2024-07-15.csv"
	if got != want {
		t.Errorf("CSVFileName() = %q, want %q", got, want)
	}
}

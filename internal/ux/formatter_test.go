package ux

import (
	"bytes"
	"strings"
	"testing"
)

type testStats struct {
	Courses int    `json:"courses" yaml:"courses"`
	Level   string `json:"level" yaml:"level"`
}

type testProfile struct {
	Email string
	Name  string
}

func (p testProfile) Text() Panel {
	panel := Panel{Title: "Profile"}
	panel.Add("Email", p.Email).Add("Name", p.Name)
	return panel
}

func TestNewFormatter(t *testing.T) {
	tests := []struct {
		name    string
		format  string
		wantErr bool
	}{
		{"json format", "json", false},
		{"yaml format", "yaml", false},
		{"text format", "text", false},
		{"empty format defaults to text", "", false},
		{"unknown format", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewFormatter(tt.format, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewFormatter() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("json", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(testStats{Courses: 4, Level: "Beginner"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, `"courses": 4`) {
		t.Errorf("JSON output missing expected field: %s", output)
	}
	if !strings.Contains(output, `"level": "Beginner"`) {
		t.Errorf("JSON output missing expected field: %s", output)
	}
}

func TestJSONFormatterCompact(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("json", &FormatterOptions{
		Writer:  &buf,
		Compact: true,
	})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(testStats{Courses: 4}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	if strings.Count(buf.String(), "\n") > 1 {
		t.Errorf("Compact JSON should be single line, got: %s", buf.String())
	}
}

func TestYAMLFormatter(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("yaml", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(testStats{Courses: 4, Level: "Beginner"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "courses: 4") {
		t.Errorf("YAML output missing expected field: %s", output)
	}
	if !strings.Contains(output, "level: Beginner") {
		t.Errorf("YAML output missing expected field: %s", output)
	}
}

func TestTextFormatter(t *testing.T) {
	tests := []struct {
		name    string
		data    any
		want    []string
		wantErr bool
	}{
		{
			name: "string data",
			data: "hello world",
			want: []string{"hello world"},
		},
		{
			name: "texter",
			data: testProfile{Email: "ada@example.com", Name: "Ada"},
			want: []string{"Profile", "", "Email: ada@example.com", "Name:  Ada"},
		},
		{
			name: "empty values are skipped",
			data: testProfile{Email: "ada@example.com"},
			want: []string{"Profile", "", "Email: ada@example.com"},
		},
		{
			name: "panel without title",
			data: Panel{Fields: []Field{{Label: "Path", Value: "/tmp/config.yaml"}}},
			want: []string{"Path: /tmp/config.yaml"},
		},
		{
			name:    "struct without text rendering",
			data:    testStats{Courses: 4},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			formatter, err := NewFormatter("text", &FormatterOptions{Writer: &buf, NoColor: true})
			if err != nil {
				t.Fatalf("NewFormatter() error = %v", err)
			}

			err = formatter.Format(tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("Format() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr {
				return
			}

			lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
			for i := range lines {
				lines[i] = strings.TrimRight(lines[i], " ")
			}
			if strings.Join(lines, "\n") != strings.Join(tt.want, "\n") {
				t.Errorf("Format() output = %q, want %q", lines, tt.want)
			}
		})
	}
}

func TestTextFormatterBoxed(t *testing.T) {
	var buf bytes.Buffer
	formatter, err := NewFormatter("text", &FormatterOptions{Writer: &buf})
	if err != nil {
		t.Fatalf("NewFormatter() error = %v", err)
	}

	if err := formatter.Format(testProfile{Email: "ada@example.com"}); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "╭") || !strings.Contains(output, "╯") {
		t.Errorf("expected a rounded border, got: %s", output)
	}
	if !strings.Contains(output, "ada@example.com") {
		t.Errorf("expected the field value, got: %s", output)
	}
}

package person

import (
	"testing"
)

var exportFixture = []Person{
	{ID: "01A", Name: "João Silva", BirthDate: "1985-05-10", DocumentNumber: "123.456.789-00", Seq: 1},
	{ID: "01B", Name: "Maria <Souza>", BirthDate: "ontem", DocumentNumber: "9", Seq: 2},
}

func TestRender_CSV(t *testing.T) {
	got, err := Render(exportFixture, FormatCSV)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "Nome,Data de Nascimento,Número do Documento\n" +
		"João Silva,10/05/1985,123.456.789-00\n" +
		"Maria <Souza>,ontem,9"
	if string(got) != want {
		t.Errorf("Render(csv) =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_Text(t *testing.T) {
	got, err := Render(exportFixture[:1], FormatText)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := "Nome\tData de Nascimento\tNúmero do Documento\nJoão Silva\t10/05/1985\t123.456.789-00"
	if string(got) != want {
		t.Errorf("Render(text) = %q, want %q", got, want)
	}
}

func TestRender_JSON(t *testing.T) {
	got, err := Render(exportFixture[1:], FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	want := `[
  {
    "id": "01B",
    "name": "Maria <Souza>",
    "birthDate": "ontem",
    "documentNumber": "9"
  }
]`
	if string(got) != want {
		t.Errorf("Render(json) =\n%s\nwant\n%s", got, want)
	}
}

func TestRender_EmptyJSON(t *testing.T) {
	got, err := Render(nil, FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if string(got) != "[]" {
		t.Errorf("Render(nil, json) = %q, want []", got)
	}
}

func TestRender_UnknownFormat(t *testing.T) {
	if _, err := Render(exportFixture, Format("xml")); err == nil {
		t.Error("Render(xml) expected error")
	}
}

func TestDecodeExport_RoundTrip(t *testing.T) {
	data, err := Render(exportFixture, FormatJSON)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	records, err := DecodeExport(data)
	if err != nil {
		t.Fatalf("DecodeExport() error = %v", err)
	}
	if len(records) != len(exportFixture) {
		t.Fatalf("records = %d, want %d", len(records), len(exportFixture))
	}
	for i, r := range records {
		p := exportFixture[i]
		if r.Name != p.Name || r.BirthDate != p.BirthDate || r.DocumentNumber != p.DocumentNumber {
			t.Errorf("records[%d] = %+v, want fields of %+v", i, r, p)
		}
	}
}

func TestDecodeExport_Invalid(t *testing.T) {
	if _, err := DecodeExport([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("DecodeExport() expected error for object payload")
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{"", FormatCSV, false},
		{"csv", FormatCSV, false},
		{" JSON ", FormatJSON, false},
		{"text", FormatText, false},
		{"txt", FormatText, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestFormat_Extension(t *testing.T) {
	if FormatCSV.Extension() != ".csv" || FormatJSON.Extension() != ".json" || FormatText.Extension() != ".txt" {
		t.Error("unexpected extensions")
	}
}

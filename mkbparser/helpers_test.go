package mkbparser

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/giygas/mkb-merge/mkbparser/entities"
)

// memoryLoader serves sources from strings keyed by file name
type memoryLoader map[string]string

func (m memoryLoader) Load(spec entities.SourceSpec) (*entities.Table, error) {
	content, ok := m[spec.File]
	if !ok {
		return nil, fmt.Errorf("open %s: %w", spec.File, fs.ErrNotExist)
	}
	return LoadSource(spec, strings.NewReader(content))
}

const (
	englishFixture = "1;0;0;0;0;0;B010;0;Influenza due to virus\n" +
		"2;0;0;0;0;0;X99.9.9;0;Broken code\n" +
		"3;0;0;0;0;0;A000;0;Cholera due to Vibrio cholerae 01, biovar cholerae\n"

	serbianFixture = "\ufeffid,code,diagnosis_sr,diagnosis_lat\n" +
		"1,B01.0,Grip,Influenza\n" +
		"2,A00.0,Kolera,Cholera\n"

	russianFixture = "1,x,b01.0,Грипп\n" +
		"2,x,A00.0,Холера\n"

	expectedOutput = "code,diagnosis_en,diagnosis_sr_latn,diagnosis_ru,diagnosis_lat\n" +
		"A00.0,\"Cholera due to Vibrio cholerae 01, biovar cholerae\",Kolera,Холера,Cholera\n" +
		"B01.0,Influenza due to virus,Grip,Грипп,Influenza\n"
)

func fixtureLoader() memoryLoader {
	return memoryLoader{
		"english.txt": englishFixture,
		"serbian.csv": serbianFixture,
		"russian.csv": russianFixture,
	}
}

// writeFixtures writes the given files into a fresh directory
func writeFixtures(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write fixture %s: %v", name, err)
		}
	}
	return dir
}

func quietReporter() (*Reporter, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewReporter(&buf, "off"), &buf
}

func specByName(t *testing.T, name string) entities.SourceSpec {
	t.Helper()
	for _, spec := range DefaultSources() {
		if spec.Name == name {
			return spec
		}
	}
	t.Fatalf("No default source named %s", name)
	return entities.SourceSpec{}
}

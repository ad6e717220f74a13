package stego

import (
	"github.com/gbitstego/audio-steg/internal/container"
	"github.com/gbitstego/audio-steg/internal/cryptenv"
)

// FileSummary describes one file found inside an encoded body by name and
// size only; it never holds the file's bytes. Report.Files is empty when
// the body is encrypted and no password was supplied.
type FileSummary struct {
	Name string
	Size int
}

// Report is the Analyzer's result. HasData is the only field callers
// should trust when CipherVersion/Files could not be determined;
// Corrupt distinguishes "structurally present but broken" from "absent".
type Report struct {
	HasData       bool
	CipherVersion container.CipherVersion
	FileCount     int
	TotalSize     int
	Files         []FileSummary
	Corrupt       bool
}

// noData is the zero-value report returned whenever the body does not
// look like it carries a recognizable payload. Corruption at this level
// is reported, never raised as an error.
func noData() Report {
	return Report{HasData: false}
}

// Analyzer inspects an encoded body without writing any file to disk.
type Analyzer struct{}

// NewAnalyzer returns an Analyzer. It holds no state.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze reads the VERSION_TAG/TOTAL_LEN prefix and, when possible,
// the container header or full manifest. Any structural failure short
// of outright absence sets Corrupt rather than returning an error.
func (a *Analyzer) Analyze(body []byte, k int, password string) Report {
	versionTag, wirePayload, err := readPrefix(body, k)
	if err != nil {
		return noData()
	}

	switch versionTag {
	case container.CipherPlain:
		return analyzeContainer(versionTag, wirePayload)
	case container.CipherLegacyCBC, container.CipherGCM:
		report := Report{HasData: true, CipherVersion: versionTag, TotalSize: len(wirePayload)}
		if password == "" {
			return report
		}
		plaintext, err := cryptenv.Open(wirePayload, password, versionTag)
		if err != nil {
			report.Corrupt = true
			return report
		}
		return analyzeContainer(versionTag, plaintext)
	default:
		return noData()
	}
}

// analyzeContainer parses a decrypted (or plaintext) container blob and
// builds the file listing half of a Report.
func analyzeContainer(versionTag container.CipherVersion, plaintext []byte) Report {
	manifest, err := container.Unmarshal(plaintext)
	if err != nil {
		return Report{HasData: true, CipherVersion: versionTag, Corrupt: true}
	}

	report := Report{
		HasData:       true,
		CipherVersion: versionTag,
		FileCount:     len(manifest.Files),
	}
	report.Files = make([]FileSummary, len(manifest.Files))
	for i, f := range manifest.Files {
		report.Files[i] = FileSummary{Name: f.Name, Size: len(f.Data)}
		report.TotalSize += len(f.Data)
	}
	return report
}

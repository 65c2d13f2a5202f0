package entities

// Output column names, in output order
const (
	ColumnCode            = "code"
	ColumnDiagnosisEN     = "diagnosis_en"
	ColumnDiagnosisSRLatn = "diagnosis_sr_latn"
	ColumnDiagnosisRU     = "diagnosis_ru"
	ColumnDiagnosisLat    = "diagnosis_lat"
)

// OutputColumns is the fixed column order of mkb_data.csv
var OutputColumns = []string{
	ColumnCode,
	ColumnDiagnosisEN,
	ColumnDiagnosisSRLatn,
	ColumnDiagnosisRU,
	ColumnDiagnosisLat,
}

// Record is one row of the merged MKB-10 table
type Record struct {
	Code            string `json:"code" csv:"code"`
	DiagnosisEN     string `json:"diagnosis_en" csv:"diagnosis_en"`
	DiagnosisSRLatn string `json:"diagnosis_sr_latn" csv:"diagnosis_sr_latn"`
	DiagnosisRU     string `json:"diagnosis_ru" csv:"diagnosis_ru"`
	DiagnosisLat    string `json:"diagnosis_lat" csv:"diagnosis_lat"`
}

// Fields returns the record values in OutputColumns order
func (r Record) Fields() []string {
	return []string{r.Code, r.DiagnosisEN, r.DiagnosisSRLatn, r.DiagnosisRU, r.DiagnosisLat}
}

// Set assigns the value of the named output column. Unknown columns are ignored.
func (r *Record) Set(column, value string) {
	switch column {
	case ColumnCode:
		r.Code = value
	case ColumnDiagnosisEN:
		r.DiagnosisEN = value
	case ColumnDiagnosisSRLatn:
		r.DiagnosisSRLatn = value
	case ColumnDiagnosisRU:
		r.DiagnosisRU = value
	case ColumnDiagnosisLat:
		r.DiagnosisLat = value
	}
}

// FillFrom copies every non-empty description of other into the empty fields of r.
// The code is left untouched.
func (r *Record) FillFrom(other Record) {
	if r.DiagnosisEN == "" {
		r.DiagnosisEN = other.DiagnosisEN
	}
	if r.DiagnosisSRLatn == "" {
		r.DiagnosisSRLatn = other.DiagnosisSRLatn
	}
	if r.DiagnosisRU == "" {
		r.DiagnosisRU = other.DiagnosisRU
	}
	if r.DiagnosisLat == "" {
		r.DiagnosisLat = other.DiagnosisLat
	}
}

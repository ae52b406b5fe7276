package specimen

// Record is one reference specimen from the collection management system:
// the verified label data the pipeline's output is evaluated against.
type Record struct {
	// Identifiers
	DocumentID string `json:"document_id" parquet:"document_id"` // Primary key, e.g. a stable specimen URI

	// Verified label content from the first gathering and unit
	TaxonVerbatim   string `json:"taxon_verbatim" parquet:"taxon_verbatim"`
	HigherGeography string `json:"higher_geography" parquet:"higher_geography"`
	Country         string `json:"country" parquet:"country"`
	Locality        string `json:"locality" parquet:"locality"`
	DisplayDateTime string `json:"display_date_time" parquet:"display_date_time"`

	// Darwin Core reference fields for extraction evaluation
	ScientificName           string `json:"scientific_name" parquet:"scientific_name"`
	ScientificNameAuthorship string `json:"scientific_name_authorship" parquet:"scientific_name_authorship"`
	InstitutionCode          string `json:"institution_code" parquet:"institution_code"`
	EventDate                string `json:"event_date" parquet:"event_date"`
	CatalogNumber            string `json:"catalog_number" parquet:"catalog_number"`
	RecordNumber             string `json:"record_number" parquet:"record_number"`
	RecordedBy               string `json:"recorded_by" parquet:"recorded_by"` // Semicolon-separated collectors

	// Hand-verified transcription of all labels on the specimen
	GroundTruth string `json:"ground_truth" parquet:"ground_truth"`
}

// LabelParts returns the verified label content as display lines, in the
// order the comparison reports present them.
func (r *Record) LabelParts() []string {
	return []string{
		r.TaxonVerbatim,
		r.HigherGeography,
		r.Country,
		r.DisplayDateTime,
	}
}

// FolderName returns the specimen's image folder name: the document URI
// with ':' and '/' flattened, e.g. "http://id.example.org/C.512411"
// becomes "http___id.example.org_C.512411".
func (r *Record) FolderName() string {
	name := make([]byte, 0, len(r.DocumentID))
	for i := 0; i < len(r.DocumentID); i++ {
		switch c := r.DocumentID[i]; c {
		case ':', '/':
			name = append(name, '_')
		default:
			name = append(name, c)
		}
	}
	return string(name)
}

package dataset

// LabeledPlantRecord is one entry of a labeled plant-photo dataset: an image
// path on disk plus the reference identification.
type LabeledPlantRecord struct {
	ID             string `json:"id" parquet:"id"`
	ImagePath      string `json:"image_path" parquet:"image_path"`
	CommonName     string `json:"common_name" parquet:"common_name"`
	ScientificName string `json:"scientific_name" parquet:"scientific_name"`
	Family         string `json:"family" parquet:"family"`
}

// PrimaryLabel returns the scientific name, falling back to the common name
// when the dataset has no scientific label.
func (r *LabeledPlantRecord) PrimaryLabel() string {
	if r.ScientificName != "" {
		return r.ScientificName
	}
	return r.CommonName
}

// HasLabel reports whether the record carries any reference name at all.
func (r *LabeledPlantRecord) HasLabel() bool {
	return r.ScientificName != "" || r.CommonName != ""
}

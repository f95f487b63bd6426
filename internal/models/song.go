package models

// Song is one playable audio record from the media index.
//
// Title, Artist and Album are never null in serialized output: rows with
// no value map to the empty string. Composer, Year and Path stay nil when
// the source row has no value, in both the global and playlist membership
// query contexts, and are omitted from JSON.
type Song struct {
	RecordFields

	Title    string  `json:"title"`
	Artist   string  `json:"artist"`
	Album    string  `json:"album"`
	Composer *string `json:"composer,omitempty"`
	Year     *string `json:"year,omitempty"`
	Track    int     `json:"track"`
	Duration int64   `json:"duration"`
	Size     int64   `json:"size"`
	Path     *string `json:"path,omitempty"`
}

// NewSong returns a Song with freshly stamped base fields and zero-value
// media fields, ready to be populated from a source row.
func NewSong() *Song {
	return &Song{RecordFields: NewRecordFields()}
}

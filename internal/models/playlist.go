package models

// Playlist is a named, ordered collection of songs from the media index.
//
// Songs is never nil: a playlist whose membership query yields nothing
// carries an empty slice and serializes as []. Each Playlist owns its
// Songs slice exclusively; entries are materialized per scan and never
// shared with the global song listing.
type Playlist struct {
	RecordFields

	Name  string  `json:"name"`
	Songs []*Song `json:"songs"`
}

// NewPlaylist returns a Playlist with freshly stamped base fields and an
// empty song list.
func NewPlaylist() *Playlist {
	return &Playlist{RecordFields: NewRecordFields(), Songs: []*Song{}}
}

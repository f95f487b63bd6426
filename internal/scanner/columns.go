package scanner

import "github.com/dphans/mediadex/internal/provider"

// songField enumerates the semantic fields mapped out of a song row.
type songField int

const (
	fieldID songField = iota
	fieldTitle
	fieldArtist
	fieldAlbum
	fieldComposer
	fieldYear
	fieldTrack
	fieldDuration
	fieldSize
	fieldPath
	fieldCreatedAt
	fieldUpdatedAt
	numSongFields
)

// columnName carries one semantic field's column name in each query
// context. The membership view prefixes audio columns to keep them
// distinct from the playlist-entry columns it joins against.
type columnName struct {
	global     string
	membership string
}

// songColumns is the single place the two row shapes are reconciled.
// Renaming a source column means touching exactly one entry here.
var songColumns = [numSongFields]columnName{
	fieldID:        {global: "id", membership: "audio_id"},
	fieldTitle:     {global: "title", membership: "audio_title"},
	fieldArtist:    {global: "artist", membership: "audio_artist"},
	fieldAlbum:     {global: "album", membership: "audio_album"},
	fieldComposer:  {global: "composer", membership: "audio_composer"},
	fieldYear:      {global: "year", membership: "audio_year"},
	fieldTrack:     {global: "track", membership: "audio_track"},
	fieldDuration:  {global: "duration", membership: "audio_duration"},
	fieldSize:      {global: "size", membership: "audio_size"},
	fieldPath:      {global: "path", membership: "audio_path"},
	fieldCreatedAt: {global: "created_at", membership: "audio_created_at"},
	fieldUpdatedAt: {global: "updated_at", membership: "audio_updated_at"},
}

// songLayout holds the resolved column offsets for one result set.
type songLayout [numSongFields]int

// resolveSongLayout resolves every semantic field's offset for the given
// context, once per result set. Absent columns resolve to -1 and read as
// type defaults.
func resolveSongLayout(cur provider.Cursor, membership bool) songLayout {
	var layout songLayout
	for f := songField(0); f < numSongFields; f++ {
		name := songColumns[f].global
		if membership {
			name = songColumns[f].membership
		}
		layout[f] = cur.ColumnIndex(name)
	}
	return layout
}

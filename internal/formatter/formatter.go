// package formatter exports the catalog to CSV, Markdown and plain text
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/musiclabel/internal/models"
	"github.com/desertthunder/musiclabel/internal/shared"
)

// Format names an export format.
type Format string

const (
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// ParseFormat accepts a format name or its common file extension.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "csv":
		return CSV, nil
	case "markdown", "md":
		return Markdown, nil
	case "text", "txt":
		return Text, nil
	default:
		return "", fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, name)
	}
}

// Catalog is a point-in-time snapshot of every artist and album.
type Catalog struct {
	Artists    []models.ArtistView
	Albums     []models.AlbumView
	ExportedAt time.Time
}

// Metadata summarises a [Catalog] without its rows.
type Metadata struct {
	ExportedAt   time.Time `json:"exported_at"`
	TotalArtists int       `json:"total_artists"`
	TotalAlbums  int       `json:"total_albums"`
}

// Metadata returns the counts and timestamp of the snapshot.
func (c *Catalog) Metadata() Metadata {
	return Metadata{ExportedAt: c.ExportedAt, TotalArtists: len(c.Artists), TotalAlbums: len(c.Albums)}
}

// ArtistsToCSV converts the artists to CSV with columns: ID, Name, Age, Genre, Country, Albums
func ArtistsToCSV(c *Catalog) ([]byte, error) {
	headers := []string{"ID", "Name", "Age", "Genre", "Country", "Albums"}
	records := make([][]string, 0, len(c.Artists))
	for _, artist := range c.Artists {
		records = append(records, []string{
			strconv.FormatInt(artist.ID, 10),
			artist.Name,
			strconv.Itoa(artist.Age),
			artist.Genre,
			artist.Country,
			strconv.Itoa(len(artist.Albums)),
		})
	}
	return writeCSV(headers, records)
}

// AlbumsToCSV converts the albums to CSV with columns: ID, Title, Release Date, Genre, Tracks, Artist ID, Artist
func AlbumsToCSV(c *Catalog) ([]byte, error) {
	headers := []string{"ID", "Title", "Release Date", "Genre", "Tracks", "Artist ID", "Artist"}
	records := make([][]string, 0, len(c.Albums))
	for _, album := range c.Albums {
		artist := ""
		if album.Artist != nil {
			artist = album.Artist.Name
		}
		records = append(records, []string{
			strconv.FormatInt(album.ID, 10),
			album.Title,
			album.ReleaseDate.String(),
			album.Genre,
			strconv.Itoa(album.TrackCount),
			strconv.FormatInt(album.ArtistID, 10),
			artist,
		})
	}
	return writeCSV(headers, records)
}

func writeCSV(headers []string, records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ToMarkdown renders the catalog as a Markdown document, one section per artist.
func ToMarkdown(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Music Label Catalog\n\n")
	if !c.ExportedAt.IsZero() {
		fmt.Fprintf(&buf, "**Exported**: %s\n", c.ExportedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(&buf, "**Artists**: %d\n", len(c.Artists))
	fmt.Fprintf(&buf, "**Albums**: %d\n\n", len(c.Albums))

	tracks := trackCounts(c.Albums)
	for _, artist := range c.Artists {
		fmt.Fprintf(&buf, "## %s\n\n", artist.Name)
		fmt.Fprintf(&buf, "%s, %s, age %d\n\n", artist.Genre, artist.Country, artist.Age)

		if len(artist.Albums) == 0 {
			buf.WriteString("_No albums._\n\n")
			continue
		}
		for i, album := range artist.Albums {
			fmt.Fprintf(&buf, "%d. %s (%s) [%s, %d tracks]\n", i+1, album.Title, album.ReleaseDate, album.Genre, tracks[album.ID])
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ToText renders the catalog as plain text.
func ToText(c *Catalog) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "Artists: %d\n", len(c.Artists))
	fmt.Fprintf(&buf, "Albums: %d\n\n", len(c.Albums))

	for _, artist := range c.Artists {
		fmt.Fprintf(&buf, "%d. %s (%s, %s)\n", artist.ID, artist.Name, artist.Genre, artist.Country)
		for _, album := range artist.Albums {
			fmt.Fprintf(&buf, "   - %s [%s]\n", album.Title, album.ReleaseDate)
		}
	}

	return buf.Bytes(), nil
}

func trackCounts(albums []models.AlbumView) map[int64]int {
	counts := make(map[int64]int, len(albums))
	for _, album := range albums {
		counts[album.ID] = album.TrackCount
	}
	return counts
}

// Render produces a single document in the given format. CSV renders the album table.
func Render(c *Catalog, format Format) ([]byte, error) {
	switch format {
	case CSV:
		return AlbumsToCSV(c)
	case Markdown:
		return ToMarkdown(c)
	case Text:
		return ToText(c)
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

// ToMetadataJSON generates a JSON representation of the catalog counts (without rows)
func ToMetadataJSON(c *Catalog) ([]byte, error) {
	return json.MarshalIndent(c.Metadata(), "", "  ")
}

// WriteExport writes the catalog next to base and returns the files it created.
//
// CSV creates {base}_artists.csv, {base}_albums.csv and {base}_metadata.json.
// Markdown creates {base}/README.md. Text creates {base}.txt.
// The base defaults to "catalog".
func WriteExport(c *Catalog, format Format, base string) ([]string, error) {
	if base == "" {
		base = "catalog"
	}

	switch format {
	case CSV:
		return writeCSVExport(c, base)
	case Markdown:
		if err := os.MkdirAll(base, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		data, err := ToMarkdown(c)
		if err != nil {
			return nil, fmt.Errorf("failed to generate Markdown: %w", err)
		}
		return writeFiles(map[string][]byte{filepath.Join(base, "README.md"): data})
	case Text:
		data, err := ToText(c)
		if err != nil {
			return nil, fmt.Errorf("failed to generate text: %w", err)
		}
		return writeFiles(map[string][]byte{base + ".txt": data})
	default:
		return nil, fmt.Errorf("%w: unknown export format %q", shared.ErrInvalidArgument, format)
	}
}

func writeCSVExport(c *Catalog, base string) ([]string, error) {
	artists, err := ArtistsToCSV(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate artists CSV: %w", err)
	}
	albums, err := AlbumsToCSV(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate albums CSV: %w", err)
	}
	metadata, err := ToMetadataJSON(c)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	return writeFiles(map[string][]byte{
		base + "_artists.csv":   artists,
		base + "_albums.csv":    albums,
		base + "_metadata.json": metadata,
	})
}

// writeFiles writes every file and returns the paths in sorted order.
func writeFiles(files map[string][]byte) ([]string, error) {
	paths := make([]string, 0, len(files))
	for path := range files {
		paths = append(paths, path)
	}
	slices.Sort(paths)

	for _, path := range paths {
		if err := os.WriteFile(path, files[path], 0644); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return paths, nil
}

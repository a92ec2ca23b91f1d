package anki

import (
	"archive/zip"
	"crypto/sha1"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// fieldSeparator joins note fields in the notes.flds column
const fieldSeparator = "\x1f"

// APKGGenerator creates Anki package files (.apkg)
type APKGGenerator struct {
	deckName string
	deckID   int64
	modelID  int64
	cards    []Card
	now      func() time.Time
}

// NewAPKGGenerator creates a new APKG generator
func NewAPKGGenerator(deckName string) *APKGGenerator {
	now := time.Now().UnixMilli()
	return &APKGGenerator{
		deckName: deckName,
		deckID:   now,
		modelID:  now + 1,
		cards:    make([]Card, 0),
		now:      time.Now,
	}
}

// AddCard adds a card to the generator
func (g *APKGGenerator) AddCard(card Card) {
	g.cards = append(g.cards, card)
}

// GenerateAPKG writes the package to outputPath. A package is a zip holding
// the collection database and an (empty) media map.
func (g *APKGGenerator) GenerateAPKG(outputPath string) error {
	tempDir, err := os.MkdirTemp("", "goodwords_apkg_*")
	if err != nil {
		return fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	dbPath := filepath.Join(tempDir, "collection.anki2")
	if err := g.createDatabase(dbPath); err != nil {
		return fmt.Errorf("failed to create database: %w", err)
	}

	if err := writeZip(outputPath, map[string]string{
		"collection.anki2": dbPath,
	}, map[string][]byte{
		"media": []byte("{}"),
	}); err != nil {
		return fmt.Errorf("failed to create zip package: %w", err)
	}
	return nil
}

func (g *APKGGenerator) createDatabase(dbPath string) error {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, stmt := range schema {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create tables: %w", err)
		}
	}
	if err := g.insertCollection(tx); err != nil {
		return fmt.Errorf("failed to insert collection: %w", err)
	}
	if err := g.insertNotes(tx); err != nil {
		return fmt.Errorf("failed to insert notes and cards: %w", err)
	}
	return tx.Commit()
}

var schema = []string{
	`CREATE TABLE col (
		id integer PRIMARY KEY, crt integer NOT NULL, mod integer NOT NULL,
		scm integer NOT NULL, ver integer NOT NULL, dty integer NOT NULL,
		usn integer NOT NULL, ls integer NOT NULL, conf text NOT NULL,
		models text NOT NULL, decks text NOT NULL, dconf text NOT NULL,
		tags text NOT NULL
	)`,
	`CREATE TABLE notes (
		id integer PRIMARY KEY, guid text NOT NULL, mid integer NOT NULL,
		mod integer NOT NULL, usn integer NOT NULL, tags text NOT NULL,
		flds text NOT NULL, sfld text NOT NULL, csum integer NOT NULL,
		flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE cards (
		id integer PRIMARY KEY, nid integer NOT NULL, did integer NOT NULL,
		ord integer NOT NULL, mod integer NOT NULL, usn integer NOT NULL,
		type integer NOT NULL, queue integer NOT NULL, due integer NOT NULL,
		ivl integer NOT NULL, factor integer NOT NULL, reps integer NOT NULL,
		lapses integer NOT NULL, left integer NOT NULL, odue integer NOT NULL,
		odid integer NOT NULL, flags integer NOT NULL, data text NOT NULL
	)`,
	`CREATE TABLE revlog (
		id integer PRIMARY KEY, cid integer NOT NULL, usn integer NOT NULL,
		ease integer NOT NULL, ivl integer NOT NULL, lastIvl integer NOT NULL,
		factor integer NOT NULL, time integer NOT NULL, type integer NOT NULL
	)`,
	`CREATE TABLE graves (usn integer NOT NULL, oid integer NOT NULL, type integer NOT NULL)`,
	`CREATE INDEX ix_notes_csum ON notes (csum)`,
	`CREATE INDEX ix_notes_usn ON notes (usn)`,
	`CREATE INDEX ix_cards_usn ON cards (usn)`,
	`CREATE INDEX ix_cards_nid ON cards (nid)`,
	`CREATE INDEX ix_cards_sched ON cards (did, queue, due)`,
	`CREATE INDEX ix_revlog_usn ON revlog (usn)`,
	`CREATE INDEX ix_revlog_cid ON revlog (cid)`,
}

type deck struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Mod       int64  `json:"mod"`
	Desc      string `json:"desc"`
	Dyn       int    `json:"dyn"`
	Conf      int    `json:"conf"`
	Usn       int    `json:"usn"`
	NewToday  [2]int `json:"newToday"`
	RevToday  [2]int `json:"revToday"`
	LrnToday  [2]int `json:"lrnToday"`
	TimeToday [2]int `json:"timeToday"`
	Collapsed bool   `json:"collapsed"`
	ExtendNew int    `json:"extendNew"`
	ExtendRev int    `json:"extendRev"`
}

type noteField struct {
	Name  string   `json:"name"`
	Ord   int      `json:"ord"`
	Font  string   `json:"font"`
	Size  int      `json:"size"`
	Media []string `json:"media"`
}

type template struct {
	Name string `json:"name"`
	Ord  int    `json:"ord"`
	Qfmt string `json:"qfmt"`
	Afmt string `json:"afmt"`
}

type noteType struct {
	ID        int64       `json:"id"`
	Name      string      `json:"name"`
	Type      int         `json:"type"`
	Mod       int64       `json:"mod"`
	Usn       int         `json:"usn"`
	Sortf     int         `json:"sortf"`
	Did       int64       `json:"did"`
	Req       [][]any     `json:"req"`
	Tags      []string    `json:"tags"`
	Vers      []int       `json:"vers"`
	Flds      []noteField `json:"flds"`
	Tmpls     []template  `json:"tmpls"`
	CSS       string      `json:"css"`
	LatexPre  string      `json:"latexPre"`
	LatexPost string      `json:"latexPost"`
}

func (g *APKGGenerator) insertCollection(tx *sql.Tx) error {
	now := g.now().Unix()

	decks := map[string]deck{
		"1": {ID: 1, Name: "Default", Mod: now, Conf: 1, ExtendNew: 10, ExtendRev: 50},
		strconv.FormatInt(g.deckID, 10): {
			ID: g.deckID, Name: g.deckName, Mod: now, Conf: 1,
			Desc:      "Vocabulary exported by goodwords",
			ExtendNew: 10, ExtendRev: 50,
		},
	}

	models := map[string]noteType{
		strconv.FormatInt(g.modelID, 10): {
			ID:    g.modelID,
			Name:  "Good Words (Basic + Reverse)",
			Mod:   now,
			Usn:   -1,
			Did:   g.deckID,
			Req:   [][]any{{0, "all", []int{0}}, {1, "all", []int{1}}},
			Tags:  []string{},
			Vers:  []int{},
			Flds: []noteField{
				{Name: "Word", Ord: 0, Font: "Arial", Size: 20, Media: []string{}},
				{Name: "Definition", Ord: 1, Font: "Arial", Size: 20, Media: []string{}},
				{Name: "Notes", Ord: 2, Font: "Arial", Size: 16, Media: []string{}},
			},
			Tmpls: []template{
				{Name: "Word to definition", Ord: 0, Qfmt: frontTemplate, Afmt: backTemplate},
				{Name: "Definition to word", Ord: 1, Qfmt: reverseFrontTemplate, Afmt: reverseBackTemplate},
			},
			CSS:       cardCSS,
			LatexPre:  `\documentclass[12pt]{article}\begin{document}`,
			LatexPost: `\end{document}`,
		},
	}

	conf := map[string]any{
		"nextPos":     1,
		"estTimes":    true,
		"activeDecks": []int64{1},
		"sortType":    "noteFld",
		"addToCur":    true,
		"curDeck":     1,
		"dueCounts":   true,
		"schedVer":    1,
		"curModel":    strconv.FormatInt(g.modelID, 10),
	}

	dconf := map[string]any{
		"1": map[string]any{
			"id": 1, "name": "Default", "mod": now, "usn": 0, "maxTaken": 60,
			"new":   map[string]any{"delays": []int{1, 10}, "ints": []int{1, 4, 7}, "initialFactor": 2500, "perDay": 20, "order": 1},
			"lapse": map[string]any{"delays": []int{10}, "mult": 0, "minInt": 1, "leechFails": 8, "leechAction": 0},
			"rev":   map[string]any{"perDay": 100, "ease4": 1.3, "fuzz": 0.05, "maxIvl": 36500, "ivlFct": 1},
		},
	}

	values := make([]string, 0, 4)
	for _, v := range []any{conf, models, decks, dconf} {
		data, err := json.Marshal(v)
		if err != nil {
			return err
		}
		values = append(values, string(data))
	}

	_, err := tx.Exec(`INSERT INTO col VALUES (1, ?, ?, ?, 11, 0, 0, 0, ?, ?, ?, ?, '{}')`,
		now, now*1000, now*1000, values[0], values[1], values[2], values[3])
	return err
}

func (g *APKGGenerator) insertNotes(tx *sql.Tx) error {
	now := g.now()
	base := now.UnixMilli()

	noteStmt, err := tx.Prepare(`INSERT INTO notes VALUES (?, ?, ?, ?, -1, '', ?, ?, ?, 0, '')`)
	if err != nil {
		return err
	}
	defer noteStmt.Close()

	cardStmt, err := tx.Prepare(`INSERT INTO cards VALUES (?, ?, ?, ?, ?, -1, 0, 0, ?, 0, 0, 0, 0, 0, 0, 0, 0, '')`)
	if err != nil {
		return err
	}
	defer cardStmt.Close()

	for i, card := range g.cards {
		// Three IDs per note: the note and its two cards
		noteID := base + int64(i*3)
		fields := strings.Join([]string{card.Term, card.Definition, card.Notes}, fieldSeparator)
		guid := fmt.Sprintf("gw_%s", card.Term)

		if _, err := noteStmt.Exec(noteID, guid, g.modelID, now.Unix(), fields, card.Term, checksum(card.Term)); err != nil {
			return fmt.Errorf("failed to insert note %q: %w", card.Term, err)
		}
		for ord := 0; ord < 2; ord++ {
			cardID := noteID + int64(ord) + 1
			if _, err := cardStmt.Exec(cardID, noteID, g.deckID, ord, now.Unix(), i); err != nil {
				return fmt.Errorf("failed to insert card %q: %w", card.Term, err)
			}
		}
	}
	return nil
}

// checksum is Anki's duplicate-detection hash of the sort field: the first
// 8 hex digits of its SHA-1
func checksum(s string) int64 {
	sum := sha1.Sum([]byte(s))
	return int64(binary.BigEndian.Uint32(sum[:4]))
}

// writeZip packs files (zip name -> path on disk) and blobs into outputPath
func writeZip(outputPath string, files map[string]string, blobs map[string][]byte) error {
	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer out.Close()

	archive := zip.NewWriter(out)
	for name, path := range files {
		w, err := archive.Create(name)
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		_, err = io.Copy(w, f)
		f.Close()
		if err != nil {
			return err
		}
	}
	for name, data := range blobs {
		w, err := archive.Create(name)
		if err != nil {
			return err
		}
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	if err := archive.Close(); err != nil {
		return err
	}
	return out.Close()
}

const frontTemplate = `<div class="word">{{Word}}</div>`

const backTemplate = `{{FrontSide}}

<hr id="answer">

<div class="definition">{{Definition}}</div>
{{#Notes}}<div class="notes">{{Notes}}</div>{{/Notes}}`

const reverseFrontTemplate = `<div class="definition">{{Definition}}</div>`

const reverseBackTemplate = `{{FrontSide}}

<hr id="answer">

<div class="word">{{Word}}</div>
{{#Notes}}<div class="notes">{{Notes}}</div>{{/Notes}}`

const cardCSS = `.card {
  font-family: Georgia, serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.word {
  font-size: 32px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.definition {
  font-size: 22px;
  margin: 20px 0;
}

.notes {
  font-size: 14px;
  color: #7f8c8d;
  font-style: italic;
}`

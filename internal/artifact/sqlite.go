package artifact

import (
	"database/sql"
	"fmt"
	"sort"

	_ "github.com/glebarez/go-sqlite"

	"vsmsearch/internal/model"
	"vsmsearch/internal/postings"
)

// SQLiteStore persists postings and the term-document matrix in a sqlite
// database, as an alternative to the delimited tables.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the store at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	if err := createTables(db); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS terms (
			ord INTEGER PRIMARY KEY,
			term TEXT UNIQUE NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS documents (
			doc_id INTEGER PRIMARY KEY
		)`,
		`CREATE TABLE IF NOT EXISTS term_postings (
			term_ord INTEGER NOT NULL,
			doc_id INTEGER NOT NULL,
			freq INTEGER NOT NULL,
			PRIMARY KEY (term_ord, doc_id)
		)`,
		`CREATE TABLE IF NOT EXISTS weights (
			term_ord INTEGER NOT NULL,
			doc_id INTEGER NOT NULL,
			weight REAL NOT NULL,
			PRIMARY KEY (term_ord, doc_id)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("creating store tables: %w", err)
		}
	}
	return nil
}

// SavePostings replaces the stored posting lists with entries, keeping the
// frequency-sorted term order via the ord column.
func (s *SQLiteStore) SavePostings(entries []postings.TermPostings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"term_postings", "terms"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	termStmt, err := tx.Prepare("INSERT INTO terms (ord, term) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer termStmt.Close()
	postStmt, err := tx.Prepare("INSERT INTO term_postings (term_ord, doc_id, freq) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer postStmt.Close()

	for ord, e := range entries {
		if _, err := termStmt.Exec(ord, e.Term); err != nil {
			return err
		}
		freq := make(map[int]int, len(e.Docs))
		for _, d := range e.Docs {
			freq[d]++
		}
		for _, d := range sortedKeys(freq) {
			if _, err := postStmt.Exec(ord, d, freq[d]); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadPostings restores the posting lists in stored term order. Occurrence
// multiplicity is rebuilt from the stored frequencies.
func (s *SQLiteStore) LoadPostings() ([]postings.TermPostings, error) {
	rows, err := s.db.Query(`
		SELECT t.ord, t.term, p.doc_id, p.freq
		FROM terms t
		JOIN term_postings p ON p.term_ord = t.ord
		ORDER BY t.ord, p.doc_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []postings.TermPostings
	lastOrd := -1
	for rows.Next() {
		var ord, doc, freq int
		var term string
		if err := rows.Scan(&ord, &term, &doc, &freq); err != nil {
			return nil, err
		}
		if ord != lastOrd {
			entries = append(entries, postings.TermPostings{Term: term})
			lastOrd = ord
		}
		e := &entries[len(entries)-1]
		for i := 0; i < freq; i++ {
			e.Docs = append(e.Docs, doc)
		}
	}
	return entries, rows.Err()
}

// SaveMatrix replaces the stored matrix. Only nonzero cells are written;
// the document universe goes to its own table so zero columns survive the
// round trip.
func (s *SQLiteStore) SaveMatrix(m *model.Matrix) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, table := range []string{"weights", "documents"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return err
		}
	}
	docStmt, err := tx.Prepare("INSERT INTO documents (doc_id) VALUES (?)")
	if err != nil {
		return err
	}
	defer docStmt.Close()
	for _, d := range m.Docs() {
		if _, err := docStmt.Exec(d); err != nil {
			return err
		}
	}

	weightStmt, err := tx.Prepare("INSERT INTO weights (term_ord, doc_id, weight) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer weightStmt.Close()
	for ord, term := range m.Terms() {
		for _, d := range m.Docs() {
			w, _ := m.Weight(term, d)
			if w == 0 {
				continue
			}
			if _, err := weightStmt.Exec(ord, d, w); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// LoadMatrix restores the matrix saved by SaveMatrix. The terms table must
// already hold the row order, so load postings and matrix from the same
// store.
func (s *SQLiteStore) LoadMatrix() (*model.Matrix, error) {
	docs, err := s.loadDocuments()
	if err != nil {
		return nil, err
	}
	terms, err := s.loadTerms()
	if err != nil {
		return nil, err
	}
	colIndex := make(map[int]int, len(docs))
	for i, d := range docs {
		colIndex[d] = i
	}
	cells := make([][]float64, len(terms))
	for i := range cells {
		cells[i] = make([]float64, len(docs))
	}

	rows, err := s.db.Query("SELECT term_ord, doc_id, weight FROM weights")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var ord, doc int
		var w float64
		if err := rows.Scan(&ord, &doc, &w); err != nil {
			return nil, err
		}
		col, ok := colIndex[doc]
		if !ok || ord < 0 || ord >= len(terms) {
			return nil, fmt.Errorf("stored weight (%d, %d) outside matrix shape", ord, doc)
		}
		cells[ord][col] = w
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return model.FromRows(terms, docs, cells)
}

func (s *SQLiteStore) loadDocuments() ([]int, error) {
	rows, err := s.db.Query("SELECT doc_id FROM documents ORDER BY doc_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var docs []int
	for rows.Next() {
		var d int
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

func (s *SQLiteStore) loadTerms() ([]string, error) {
	rows, err := s.db.Query("SELECT term FROM terms ORDER BY ord")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var terms []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		terms = append(terms, t)
	}
	return terms, rows.Err()
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func sortedKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

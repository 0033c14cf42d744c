// Package sqlite implements the KnowledgeStore on an embedded SQLite
// database. All writes are upserts keyed by natural identity, so every
// operation is safe to repeat.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/mindexhq/mindex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/mindexhq/mindex/internal/core/domain"
	"github.com/mindexhq/mindex/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.KnowledgeStore = (*Store)(nil)

// Store is the SQLite-backed KnowledgeStore.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a store at the specified data directory.
// If dataDir is empty, defaults to ~/.mindex/data/knowledge.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".mindex", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Resources ====================

// UpsertResource inserts or updates a resource, preserving the stored
// ID and CreatedAt for an existing (namespace, source_uri).
func (s *Store) UpsertResource(ctx context.Context, res domain.InformationResource) (domain.InformationResource, error) {
	now := time.Now().UTC()

	existing, err := s.GetResourceByURI(ctx, res.Namespace, res.SourceURI)
	switch {
	case err == nil:
		res.ID = existing.ID
		res.CreatedAt = existing.CreatedAt
		res.UpdatedAt = now
	case errors.Is(err, domain.ErrNotFound):
		res.CreatedAt = now
		res.UpdatedAt = now
	default:
		return domain.InformationResource{}, err
	}

	metadataJSON, err := json.Marshal(orEmptyMap(res.Metadata))
	if err != nil {
		return domain.InformationResource{}, fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO information_resources (id, namespace, source_type, source_uri, content_hash, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, source_uri) DO UPDATE SET
			source_type = excluded.source_type,
			content_hash = excluded.content_hash,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		res.ID, res.Namespace, res.SourceType, res.SourceURI, res.ContentHash,
		string(metadataJSON), res.CreatedAt, res.UpdatedAt)
	if err != nil {
		return domain.InformationResource{}, fmt.Errorf("upserting resource: %w", err)
	}
	return res, nil
}

// GetResource fetches a resource by ID.
func (s *Store) GetResource(ctx context.Context, id string) (domain.InformationResource, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, namespace, source_type, source_uri, content_hash, metadata, created_at, updated_at
		FROM information_resources WHERE id = ?`, id)
	return scanResource(row)
}

// GetResourceByURI fetches a resource by (namespace, source_uri).
func (s *Store) GetResourceByURI(ctx context.Context, namespace, sourceURI string) (domain.InformationResource, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, namespace, source_type, source_uri, content_hash, metadata, created_at, updated_at
		FROM information_resources WHERE namespace = ? AND source_uri = ?`, namespace, sourceURI)
	return scanResource(row)
}

// ListResources returns resources in a namespace ordered by source URI.
func (s *Store) ListResources(ctx context.Context, namespace string) ([]domain.InformationResource, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, namespace, source_type, source_uri, content_hash, metadata, created_at, updated_at
		FROM information_resources WHERE namespace = ? ORDER BY source_uri`, namespace)
	if err != nil {
		return nil, fmt.Errorf("querying resources: %w", err)
	}
	defer rows.Close()

	var resources []domain.InformationResource
	for rows.Next() {
		res, err := scanResourceRows(rows)
		if err != nil {
			return nil, err
		}
		resources = append(resources, res)
	}
	return resources, rows.Err()
}

// ==================== Segments ====================

// UpsertSegment stores one segment; an existing row keeps CreatedAt.
func (s *Store) UpsertSegment(ctx context.Context, seg domain.ResourceSegment) error {
	return s.UpsertSegments(ctx, []domain.ResourceSegment{seg})
}

// UpsertSegments stores a batch of segments in one transaction.
func (s *Store) UpsertSegments(ctx context.Context, segs []domain.ResourceSegment) error {
	if len(segs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO resource_segments (id, resource_id, segment_index, text, provenance, text_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			resource_id = excluded.resource_id,
			segment_index = excluded.segment_index,
			text = excluded.text,
			provenance = excluded.provenance,
			text_hash = excluded.text_hash`)
	if err != nil {
		return fmt.Errorf("preparing segment upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, seg := range segs {
		provJSON, err := json.Marshal(seg.Provenance)
		if err != nil {
			return fmt.Errorf("marshalling provenance: %w", err)
		}
		createdAt := seg.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx, seg.ID, seg.ResourceID, seg.SegmentIndex,
			seg.Text, string(provJSON), seg.TextHash, createdAt); err != nil {
			return fmt.Errorf("upserting segment %s: %w", seg.ID, err)
		}
	}

	return tx.Commit()
}

// GetSegment fetches a segment by ID.
func (s *Store) GetSegment(ctx context.Context, id string) (domain.ResourceSegment, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, resource_id, segment_index, text, provenance, text_hash, created_at
		FROM resource_segments WHERE id = ?`, id)

	var seg domain.ResourceSegment
	var provJSON string
	if err := row.Scan(&seg.ID, &seg.ResourceID, &seg.SegmentIndex, &seg.Text,
		&provJSON, &seg.TextHash, &seg.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ResourceSegment{}, domain.ErrNotFound
		}
		return domain.ResourceSegment{}, fmt.Errorf("scanning segment: %w", err)
	}
	if err := json.Unmarshal([]byte(provJSON), &seg.Provenance); err != nil {
		return domain.ResourceSegment{}, fmt.Errorf("unmarshalling provenance: %w", err)
	}
	return seg, nil
}

// GetSegmentsForResource returns a resource's segments ordered by
// segment index.
func (s *Store) GetSegmentsForResource(ctx context.Context, resourceID string) ([]domain.ResourceSegment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource_id, segment_index, text, provenance, text_hash, created_at
		FROM resource_segments WHERE resource_id = ? ORDER BY segment_index`, resourceID)
	if err != nil {
		return nil, fmt.Errorf("querying segments: %w", err)
	}
	defer rows.Close()

	var segs []domain.ResourceSegment
	for rows.Next() {
		var seg domain.ResourceSegment
		var provJSON string
		if err := rows.Scan(&seg.ID, &seg.ResourceID, &seg.SegmentIndex, &seg.Text,
			&provJSON, &seg.TextHash, &seg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning segment: %w", err)
		}
		if err := json.Unmarshal([]byte(provJSON), &seg.Provenance); err != nil {
			return nil, fmt.Errorf("unmarshalling provenance: %w", err)
		}
		segs = append(segs, seg)
	}
	return segs, rows.Err()
}

// CountSegmentsForResource reports how many segments a resource has.
func (s *Store) CountSegmentsForResource(ctx context.Context, resourceID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM resource_segments WHERE resource_id = ?", resourceID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting segments: %w", err)
	}
	return count, nil
}

// ==================== Entities ====================

// UpsertEntity inserts or updates an entity. For an existing
// (namespace, type, name) the stored ID and CreatedAt are preserved and
// aliases/metadata are merged into the stored record.
func (s *Store) UpsertEntity(ctx context.Context, ent domain.Entity) (domain.Entity, error) {
	now := time.Now().UTC()

	existing, err := s.GetEntityByName(ctx, ent.Namespace, ent.Type, ent.Name)
	switch {
	case err == nil:
		merged := existing
		merged.MergeAliases(ent.Aliases)
		merged.MergeMetadata(ent.Metadata)
		merged.UpdatedAt = now
		ent = merged
	case errors.Is(err, domain.ErrNotFound):
		ent.CreatedAt = now
		ent.UpdatedAt = now
	default:
		return domain.Entity{}, err
	}

	aliasesJSON, err := json.Marshal(orEmptySlice(ent.Aliases))
	if err != nil {
		return domain.Entity{}, fmt.Errorf("marshalling aliases: %w", err)
	}
	metadataJSON, err := json.Marshal(orEmptyMap(ent.Metadata))
	if err != nil {
		return domain.Entity{}, fmt.Errorf("marshalling metadata: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO entities (id, namespace, type, name, aliases, metadata, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(namespace, type, name) DO UPDATE SET
			aliases = excluded.aliases,
			metadata = excluded.metadata,
			updated_at = excluded.updated_at`,
		ent.ID, ent.Namespace, ent.Type, ent.Name,
		string(aliasesJSON), string(metadataJSON), ent.CreatedAt, ent.UpdatedAt)
	if err != nil {
		return domain.Entity{}, fmt.Errorf("upserting entity: %w", err)
	}
	return ent, nil
}

// GetEntity fetches an entity by ID.
func (s *Store) GetEntity(ctx context.Context, id string) (domain.Entity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, namespace, type, name, aliases, metadata, created_at, updated_at
		FROM entities WHERE id = ?`, id)
	return scanEntity(row)
}

// GetEntityByName fetches an entity by exact (namespace, type, name).
func (s *Store) GetEntityByName(ctx context.Context, namespace, entityType, name string) (domain.Entity, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, namespace, type, name, aliases, metadata, created_at, updated_at
		FROM entities WHERE namespace = ? AND type = ? AND name = ?`, namespace, entityType, name)
	return scanEntity(row)
}

// ListEntities returns entities in insertion order, optionally filtered
// by type.
func (s *Store) ListEntities(ctx context.Context, namespace, entityType string) ([]domain.Entity, error) {
	query := `
		SELECT id, namespace, type, name, aliases, metadata, created_at, updated_at
		FROM entities WHERE namespace = ?`
	args := []any{namespace}
	if entityType != "" {
		query += " AND type = ?"
		args = append(args, entityType)
	}
	query += " ORDER BY rowid"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []domain.Entity
	for rows.Next() {
		ent, err := scanEntityRows(rows)
		if err != nil {
			return nil, err
		}
		entities = append(entities, ent)
	}
	return entities, rows.Err()
}

// ==================== Links ====================

// AddEntityLink stores one link; repeating the same natural key updates
// confidence in place.
func (s *Store) AddEntityLink(ctx context.Context, link domain.EntityLink) error {
	return s.AddEntityLinks(ctx, []domain.EntityLink{link})
}

// AddEntityLinks stores a batch of links in one transaction.
func (s *Store) AddEntityLinks(ctx context.Context, links []domain.EntityLink) error {
	if len(links) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO segment_entity_links (segment_id, entity_id, link_type, confidence, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(segment_id, entity_id, link_type) DO UPDATE SET
			confidence = excluded.confidence`)
	if err != nil {
		return fmt.Errorf("preparing link upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, link := range links {
		createdAt := link.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx, link.SegmentID, link.EntityID,
			link.LinkType, link.Confidence, createdAt); err != nil {
			return fmt.Errorf("upserting link %s -> %s: %w", link.SegmentID, link.EntityID, err)
		}
	}

	return tx.Commit()
}

// GetSegmentsForEntity returns every segment linked to an entity with
// link metadata, in segment creation order so recall reads as mention
// history.
func (s *Store) GetSegmentsForEntity(ctx context.Context, entityID string) ([]domain.EntityMatch, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seg.id, seg.text, seg.provenance, ir.source_uri, ir.namespace, l.link_type, l.confidence
		FROM segment_entity_links l
		JOIN resource_segments seg ON seg.id = l.segment_id
		JOIN information_resources ir ON ir.id = seg.resource_id
		WHERE l.entity_id = ?
		ORDER BY seg.created_at, seg.segment_index`, entityID)
	if err != nil {
		return nil, fmt.Errorf("querying segments for entity: %w", err)
	}
	defer rows.Close()

	var matches []domain.EntityMatch
	for rows.Next() {
		var m domain.EntityMatch
		var provJSON string
		if err := rows.Scan(&m.SegmentID, &m.Text, &provJSON, &m.SourceURI,
			&m.Namespace, &m.LinkType, &m.Confidence); err != nil {
			return nil, fmt.Errorf("scanning entity match: %w", err)
		}
		if err := json.Unmarshal([]byte(provJSON), &m.Provenance); err != nil {
			return nil, fmt.Errorf("unmarshalling provenance: %w", err)
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// GetEntitiesForSegment returns every (entity, link) pair attached to
// a segment, so callers see link type and confidence alongside each
// entity.
func (s *Store) GetEntitiesForSegment(ctx context.Context, segmentID string) ([]domain.LinkedEntity, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.namespace, e.type, e.name, e.aliases, e.metadata, e.created_at, e.updated_at,
			l.link_type, l.confidence
		FROM segment_entity_links l
		JOIN entities e ON e.id = l.entity_id
		WHERE l.segment_id = ?
		ORDER BY e.rowid, l.link_type`, segmentID)
	if err != nil {
		return nil, fmt.Errorf("querying entities for segment: %w", err)
	}
	defer rows.Close()

	var linked []domain.LinkedEntity
	for rows.Next() {
		var le domain.LinkedEntity
		var aliasesJSON, metadataJSON string
		if err := rows.Scan(&le.Entity.ID, &le.Entity.Namespace, &le.Entity.Type, &le.Entity.Name,
			&aliasesJSON, &metadataJSON, &le.Entity.CreatedAt, &le.Entity.UpdatedAt,
			&le.LinkType, &le.Confidence); err != nil {
			return nil, fmt.Errorf("scanning linked entity: %w", err)
		}
		if err := unmarshalEntityFields(&le.Entity, aliasesJSON, metadataJSON); err != nil {
			return nil, err
		}
		linked = append(linked, le)
	}
	return linked, rows.Err()
}

// CountMentions reports how many segments link to the entity.
func (s *Store) CountMentions(ctx context.Context, entityID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM segment_entity_links WHERE entity_id = ?", entityID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("counting mentions: %w", err)
	}
	return count, nil
}

// ==================== Embeddings ====================

// AddEmbedding stores a segment's embedding, replacing any existing one.
func (s *Store) AddEmbedding(ctx context.Context, emb domain.Embedding) error {
	createdAt := emb.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO embeddings (segment_id, model, vector, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(segment_id) DO UPDATE SET
			model = excluded.model,
			vector = excluded.vector,
			created_at = excluded.created_at`,
		emb.SegmentID, emb.Model, float32SliceToBytes(emb.Vector), createdAt)
	if err != nil {
		return fmt.Errorf("upserting embedding: %w", err)
	}
	return nil
}

// GetEmbedding fetches the embedding for a segment.
func (s *Store) GetEmbedding(ctx context.Context, segmentID string) (domain.Embedding, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT segment_id, model, vector, created_at FROM embeddings WHERE segment_id = ?", segmentID)

	var emb domain.Embedding
	var blob []byte
	if err := row.Scan(&emb.SegmentID, &emb.Model, &blob, &emb.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Embedding{}, domain.ErrNotFound
		}
		return domain.Embedding{}, fmt.Errorf("scanning embedding: %w", err)
	}
	emb.Vector = bytesToFloat32Slice(blob)
	return emb, nil
}

// ListSegmentEmbeddings returns every embedding in a namespace joined
// with segment and resource context, in document order.
func (s *Store) ListSegmentEmbeddings(ctx context.Context, namespace string) ([]driven.SegmentEmbedding, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT emb.segment_id, emb.vector, seg.text, seg.provenance, ir.source_uri, ir.namespace
		FROM embeddings emb
		JOIN resource_segments seg ON seg.id = emb.segment_id
		JOIN information_resources ir ON ir.id = seg.resource_id
		WHERE ir.namespace = ?
		ORDER BY ir.source_uri, seg.segment_index`, namespace)
	if err != nil {
		return nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var embeddings []driven.SegmentEmbedding
	for rows.Next() {
		var se driven.SegmentEmbedding
		var blob []byte
		var provJSON string
		if err := rows.Scan(&se.SegmentID, &blob, &se.Text, &provJSON,
			&se.SourceURI, &se.Namespace); err != nil {
			return nil, fmt.Errorf("scanning segment embedding: %w", err)
		}
		if err := json.Unmarshal([]byte(provJSON), &se.Provenance); err != nil {
			return nil, fmt.Errorf("unmarshalling provenance: %w", err)
		}
		se.Vector = bytesToFloat32Slice(blob)
		embeddings = append(embeddings, se)
	}
	return embeddings, rows.Err()
}

// ==================== Stats ====================

// Stats summarises one namespace.
func (s *Store) Stats(ctx context.Context, namespace string) (domain.Stats, error) {
	stats := domain.Stats{Namespace: namespace}

	row := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM information_resources WHERE namespace = ?),
			(SELECT COUNT(*) FROM resource_segments seg
				JOIN information_resources ir ON ir.id = seg.resource_id
				WHERE ir.namespace = ?),
			(SELECT COUNT(*) FROM entities WHERE namespace = ?),
			(SELECT COUNT(DISTINCT type) FROM entities WHERE namespace = ?)`,
		namespace, namespace, namespace, namespace)
	if err := row.Scan(&stats.ResourceCount, &stats.SegmentCount,
		&stats.EntityCount, &stats.EntityTypeCount); err != nil {
		return domain.Stats{}, fmt.Errorf("scanning stats: %w", err)
	}
	return stats, nil
}

// ==================== Helper Functions ====================

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

func orEmptyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return m
}

func orEmptySlice(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func scanResource(row *sql.Row) (domain.InformationResource, error) {
	var res domain.InformationResource
	var metadataJSON string
	if err := row.Scan(&res.ID, &res.Namespace, &res.SourceType, &res.SourceURI,
		&res.ContentHash, &metadataJSON, &res.CreatedAt, &res.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.InformationResource{}, domain.ErrNotFound
		}
		return domain.InformationResource{}, fmt.Errorf("scanning resource: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &res.Metadata); err != nil {
		return domain.InformationResource{}, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return res, nil
}

func scanResourceRows(rows *sql.Rows) (domain.InformationResource, error) {
	var res domain.InformationResource
	var metadataJSON string
	if err := rows.Scan(&res.ID, &res.Namespace, &res.SourceType, &res.SourceURI,
		&res.ContentHash, &metadataJSON, &res.CreatedAt, &res.UpdatedAt); err != nil {
		return domain.InformationResource{}, fmt.Errorf("scanning resource: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &res.Metadata); err != nil {
		return domain.InformationResource{}, fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return res, nil
}

func scanEntity(row *sql.Row) (domain.Entity, error) {
	var ent domain.Entity
	var aliasesJSON, metadataJSON string
	if err := row.Scan(&ent.ID, &ent.Namespace, &ent.Type, &ent.Name,
		&aliasesJSON, &metadataJSON, &ent.CreatedAt, &ent.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Entity{}, domain.ErrNotFound
		}
		return domain.Entity{}, fmt.Errorf("scanning entity: %w", err)
	}
	if err := unmarshalEntityFields(&ent, aliasesJSON, metadataJSON); err != nil {
		return domain.Entity{}, err
	}
	return ent, nil
}

func scanEntityRows(rows *sql.Rows) (domain.Entity, error) {
	var ent domain.Entity
	var aliasesJSON, metadataJSON string
	if err := rows.Scan(&ent.ID, &ent.Namespace, &ent.Type, &ent.Name,
		&aliasesJSON, &metadataJSON, &ent.CreatedAt, &ent.UpdatedAt); err != nil {
		return domain.Entity{}, fmt.Errorf("scanning entity: %w", err)
	}
	if err := unmarshalEntityFields(&ent, aliasesJSON, metadataJSON); err != nil {
		return domain.Entity{}, err
	}
	return ent, nil
}

func unmarshalEntityFields(ent *domain.Entity, aliasesJSON, metadataJSON string) error {
	if err := json.Unmarshal([]byte(aliasesJSON), &ent.Aliases); err != nil {
		return fmt.Errorf("unmarshalling aliases: %w", err)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &ent.Metadata); err != nil {
		return fmt.Errorf("unmarshalling metadata: %w", err)
	}
	return nil
}

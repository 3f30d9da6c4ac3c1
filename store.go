package animus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
	"github.com/zoobzio/astql/postgres"
	"github.com/zoobzio/soy"
)

// Store is the persistence collaborator: emotional state, learning history,
// and an episode log of broadcast contents survive across runs. The boolean
// returns on loads distinguish "nothing persisted yet" from real errors.
type Store interface {
	SaveEmotions(ctx context.Context, state EmotionalState, beliefs MetaBeliefs) error
	LoadEmotions(ctx context.Context) (EmotionalState, MetaBeliefs, bool, error)
	SaveLearning(ctx context.Context, snap LearningSnapshot) error
	LoadLearning(ctx context.Context) (LearningSnapshot, bool, error)
	SaveEpisode(ctx context.Context, content Content) error
	RecentEpisodes(ctx context.Context, limit int) ([]Content, error)
}

// MindRow is the singleton row holding the affect state and meta-beliefs.
type MindRow struct {
	ID        string    `db:"id" type:"text" constraints:"primarykey"`
	Emotions  string    `db:"emotions" type:"jsonb" constraints:"notnull"`
	Beliefs   string    `db:"beliefs" type:"jsonb" constraints:"notnull"`
	UpdatedAt time.Time `db:"updated_at" type:"timestamp" constraints:"notnull"`
}

// StrategyRow is one strategy's accumulated learning statistics.
type StrategyRow struct {
	Strategy  string    `db:"strategy" type:"text" constraints:"primarykey"`
	Attempts  int       `db:"attempts" type:"integer" constraints:"notnull"`
	Successes int       `db:"successes" type:"integer" constraints:"notnull"`
	Failures  int       `db:"failures" type:"integer" constraints:"notnull"`
	TotalPain float64   `db:"total_pain" type:"double precision" constraints:"notnull"`
	Contexts  string    `db:"contexts" type:"jsonb" default:"'[]'"`
	UpdatedAt time.Time `db:"updated_at" type:"timestamp" constraints:"notnull"`
}

// ConceptRow is one concept's accumulated difficulty history.
type ConceptRow struct {
	Concept          string    `db:"concept" type:"text" constraints:"primarykey"`
	Attempts         int       `db:"attempts" type:"integer" constraints:"notnull"`
	Successes        int       `db:"successes" type:"integer" constraints:"notnull"`
	BestStrategy     string    `db:"best_strategy" type:"text"`
	FailedStrategies string    `db:"failed_strategies" type:"jsonb" default:"'[]'"`
	UpdatedAt        time.Time `db:"updated_at" type:"timestamp" constraints:"notnull"`
}

// EpisodeRow is one broadcast content recorded for later review.
type EpisodeRow struct {
	ID          string    `db:"id" type:"uuid" constraints:"primarykey" default:"gen_random_uuid()"`
	ContentType string    `db:"content_type" type:"text" constraints:"notnull"`
	Payload     string    `db:"payload" type:"jsonb" default:"'{}'"`
	Activation  float64   `db:"activation" type:"double precision" constraints:"notnull"`
	Ignited     bool      `db:"ignited" type:"boolean" constraints:"notnull"`
	Sources     string    `db:"sources" type:"jsonb" default:"'[]'"`
	CreatedAt   time.Time `db:"created_at" type:"timestamp" constraints:"notnull"`
}

// SoyStore implements Store using soy over postgres.
type SoyStore struct {
	mind       *soy.Soy[MindRow]
	strategies *soy.Soy[StrategyRow]
	concepts   *soy.Soy[ConceptRow]
	episodes   *soy.Soy[EpisodeRow]
	db         *sqlx.DB
}

const mindRowID = "mind"

// NewSoyStore creates a soy-backed store over an open connection.
func NewSoyStore(db *sqlx.DB) (*SoyStore, error) {
	renderer := postgres.New()

	mind, err := soy.New[MindRow](db, "mind_state", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mind_state table: %w", err)
	}
	strategies, err := soy.New[StrategyRow](db, "strategy_stats", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize strategy_stats table: %w", err)
	}
	concepts, err := soy.New[ConceptRow](db, "concept_stats", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize concept_stats table: %w", err)
	}
	episodes, err := soy.New[EpisodeRow](db, "episodes", renderer)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize episodes table: %w", err)
	}

	return &SoyStore{
		mind:       mind,
		strategies: strategies,
		concepts:   concepts,
		episodes:   episodes,
		db:         db,
	}, nil
}

// SaveEmotions upserts the singleton mind row.
func (s *SoyStore) SaveEmotions(ctx context.Context, state EmotionalState, beliefs MetaBeliefs) error {
	emotionsJSON, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to encode emotional state: %w", err)
	}
	beliefsJSON, err := json.Marshal(beliefs)
	if err != nil {
		return fmt.Errorf("failed to encode meta beliefs: %w", err)
	}

	existing, err := s.mind.Query().
		Where("id", "=", "id").
		Exec(ctx, map[string]any{"id": mindRowID})
	if err != nil {
		return fmt.Errorf("failed to check mind state: %w", err)
	}

	if len(existing) == 0 {
		row := &MindRow{
			ID:        mindRowID,
			Emotions:  string(emotionsJSON),
			Beliefs:   string(beliefsJSON),
			UpdatedAt: time.Now(),
		}
		if _, err := s.mind.Insert().Exec(ctx, row); err != nil {
			return fmt.Errorf("failed to insert mind state: %w", err)
		}
		return nil
	}

	_, err = s.mind.Modify().
		Set("emotions", "emotions").
		Set("beliefs", "beliefs").
		Set("updated_at", "updated_at").
		Where("id", "=", "id").
		Exec(ctx, map[string]any{
			"emotions":   string(emotionsJSON),
			"beliefs":    string(beliefsJSON),
			"updated_at": time.Now(),
			"id":         mindRowID,
		})
	if err != nil {
		return fmt.Errorf("failed to update mind state: %w", err)
	}
	return nil
}

// LoadEmotions reads the singleton mind row. The boolean is false when no
// state has ever been saved.
func (s *SoyStore) LoadEmotions(ctx context.Context) (EmotionalState, MetaBeliefs, bool, error) {
	rows, err := s.mind.Query().
		Where("id", "=", "id").
		Exec(ctx, map[string]any{"id": mindRowID})
	if err != nil {
		return EmotionalState{}, MetaBeliefs{}, false, fmt.Errorf("failed to load mind state: %w", err)
	}
	if len(rows) == 0 {
		return EmotionalState{}, MetaBeliefs{}, false, nil
	}

	var state EmotionalState
	if err := json.Unmarshal([]byte(rows[0].Emotions), &state); err != nil {
		return EmotionalState{}, MetaBeliefs{}, false, fmt.Errorf("failed to decode emotional state: %w", err)
	}
	var beliefs MetaBeliefs
	if err := json.Unmarshal([]byte(rows[0].Beliefs), &beliefs); err != nil {
		return EmotionalState{}, MetaBeliefs{}, false, fmt.Errorf("failed to decode meta beliefs: %w", err)
	}
	return state, beliefs, true, nil
}

// SaveLearning replaces the persisted strategy and concept statistics with the
// snapshot's contents.
func (s *SoyStore) SaveLearning(ctx context.Context, snap LearningSnapshot) error {
	now := time.Now()

	for id, stats := range snap.Strategies {
		contexts, err := json.Marshal(stats.Contexts)
		if err != nil {
			return fmt.Errorf("failed to encode contexts for %s: %w", id, err)
		}
		if err := s.upsertStrategy(ctx, &StrategyRow{
			Strategy:  id,
			Attempts:  stats.Attempts,
			Successes: stats.Successes,
			Failures:  stats.Failures,
			TotalPain: stats.TotalPain,
			Contexts:  string(contexts),
			UpdatedAt: now,
		}); err != nil {
			return err
		}
	}

	for name, diff := range snap.Concepts {
		failed, err := json.Marshal(diff.FailedStrategies)
		if err != nil {
			return fmt.Errorf("failed to encode failed strategies for %s: %w", name, err)
		}
		if err := s.upsertConcept(ctx, &ConceptRow{
			Concept:          name,
			Attempts:         diff.Attempts,
			Successes:        diff.Successes,
			BestStrategy:     diff.BestStrategy,
			FailedStrategies: string(failed),
			UpdatedAt:        now,
		}); err != nil {
			return err
		}
	}

	return nil
}

func (s *SoyStore) upsertStrategy(ctx context.Context, row *StrategyRow) error {
	existing, err := s.strategies.Query().
		Where("strategy", "=", "strategy").
		Exec(ctx, map[string]any{"strategy": row.Strategy})
	if err != nil {
		return fmt.Errorf("failed to check strategy stats: %w", err)
	}

	if len(existing) == 0 {
		if _, err := s.strategies.Insert().Exec(ctx, row); err != nil {
			return fmt.Errorf("failed to insert strategy stats: %w", err)
		}
		return nil
	}

	_, err = s.strategies.Modify().
		Set("attempts", "attempts").
		Set("successes", "successes").
		Set("failures", "failures").
		Set("total_pain", "total_pain").
		Set("contexts", "contexts").
		Set("updated_at", "updated_at").
		Where("strategy", "=", "strategy").
		Exec(ctx, map[string]any{
			"attempts":   row.Attempts,
			"successes":  row.Successes,
			"failures":   row.Failures,
			"total_pain": row.TotalPain,
			"contexts":   row.Contexts,
			"updated_at": row.UpdatedAt,
			"strategy":   row.Strategy,
		})
	if err != nil {
		return fmt.Errorf("failed to update strategy stats: %w", err)
	}
	return nil
}

func (s *SoyStore) upsertConcept(ctx context.Context, row *ConceptRow) error {
	existing, err := s.concepts.Query().
		Where("concept", "=", "concept").
		Exec(ctx, map[string]any{"concept": row.Concept})
	if err != nil {
		return fmt.Errorf("failed to check concept stats: %w", err)
	}

	if len(existing) == 0 {
		if _, err := s.concepts.Insert().Exec(ctx, row); err != nil {
			return fmt.Errorf("failed to insert concept stats: %w", err)
		}
		return nil
	}

	_, err = s.concepts.Modify().
		Set("attempts", "attempts").
		Set("successes", "successes").
		Set("best_strategy", "best_strategy").
		Set("failed_strategies", "failed_strategies").
		Set("updated_at", "updated_at").
		Where("concept", "=", "concept").
		Exec(ctx, map[string]any{
			"attempts":          row.Attempts,
			"successes":         row.Successes,
			"best_strategy":     row.BestStrategy,
			"failed_strategies": row.FailedStrategies,
			"updated_at":        row.UpdatedAt,
			"concept":           row.Concept,
		})
	if err != nil {
		return fmt.Errorf("failed to update concept stats: %w", err)
	}
	return nil
}

// LoadLearning reconstructs a learning snapshot from the persisted rows. The
// boolean is false when nothing has been saved yet.
func (s *SoyStore) LoadLearning(ctx context.Context) (LearningSnapshot, bool, error) {
	strategyRows, err := s.strategies.Query().
		OrderBy("strategy", "asc").
		Exec(ctx, map[string]any{})
	if err != nil {
		return LearningSnapshot{}, false, fmt.Errorf("failed to load strategy stats: %w", err)
	}
	conceptRows, err := s.concepts.Query().
		OrderBy("concept", "asc").
		Exec(ctx, map[string]any{})
	if err != nil {
		return LearningSnapshot{}, false, fmt.Errorf("failed to load concept stats: %w", err)
	}

	if len(strategyRows) == 0 && len(conceptRows) == 0 {
		return LearningSnapshot{}, false, nil
	}

	snap := LearningSnapshot{
		Strategies: make(map[string]StrategyStats, len(strategyRows)),
		Concepts:   make(map[string]ConceptDifficulty, len(conceptRows)),
	}

	for _, row := range strategyRows {
		var contexts []OutcomeContext
		if row.Contexts != "" {
			if err := json.Unmarshal([]byte(row.Contexts), &contexts); err != nil {
				return LearningSnapshot{}, false, fmt.Errorf("failed to decode contexts for %s: %w", row.Strategy, err)
			}
		}
		snap.Strategies[row.Strategy] = StrategyStats{
			Attempts:  row.Attempts,
			Successes: row.Successes,
			Failures:  row.Failures,
			TotalPain: row.TotalPain,
			Contexts:  contexts,
		}
	}

	for _, row := range conceptRows {
		var failed []string
		if row.FailedStrategies != "" {
			if err := json.Unmarshal([]byte(row.FailedStrategies), &failed); err != nil {
				return LearningSnapshot{}, false, fmt.Errorf("failed to decode failed strategies for %s: %w", row.Concept, err)
			}
		}
		snap.Concepts[row.Concept] = ConceptDifficulty{
			Attempts:         row.Attempts,
			Successes:        row.Successes,
			BestStrategy:     row.BestStrategy,
			FailedStrategies: failed,
		}
	}

	return snap, true, nil
}

// SaveEpisode appends a broadcast content to the episode log.
func (s *SoyStore) SaveEpisode(ctx context.Context, content Content) error {
	payload, err := json.Marshal(content.Payload)
	if err != nil {
		return fmt.Errorf("failed to encode episode payload: %w", err)
	}
	sources, err := json.Marshal(content.Sources)
	if err != nil {
		return fmt.Errorf("failed to encode episode sources: %w", err)
	}

	row := &EpisodeRow{
		ContentType: content.Type,
		Payload:     string(payload),
		Activation:  content.Activation,
		Ignited:     content.Ignited,
		Sources:     string(sources),
		CreatedAt:   content.Timestamp,
	}
	if _, err := s.episodes.Insert().Exec(ctx, row); err != nil {
		return fmt.Errorf("failed to insert episode: %w", err)
	}
	return nil
}

// RecentEpisodes returns the newest episodes first.
func (s *SoyStore) RecentEpisodes(ctx context.Context, limit int) ([]Content, error) {
	rows, err := s.episodes.Query().
		OrderBy("created_at", "desc").
		Limit(limit).
		Exec(ctx, map[string]any{})
	if err != nil {
		return nil, fmt.Errorf("failed to load episodes: %w", err)
	}

	episodes := make([]Content, 0, len(rows))
	for _, row := range rows {
		var payload map[string]any
		if row.Payload != "" {
			if err := json.Unmarshal([]byte(row.Payload), &payload); err != nil {
				return nil, fmt.Errorf("failed to decode episode payload: %w", err)
			}
		}
		var sources []string
		if row.Sources != "" {
			if err := json.Unmarshal([]byte(row.Sources), &sources); err != nil {
				return nil, fmt.Errorf("failed to decode episode sources: %w", err)
			}
		}
		episodes = append(episodes, Content{
			Type:       row.ContentType,
			Payload:    payload,
			Activation: row.Activation,
			Ignited:    row.Ignited,
			Timestamp:  row.CreatedAt,
			Sources:    sources,
		})
	}
	return episodes, nil
}

var _ Store = (*SoyStore)(nil)

// Package agent wires the insights pipeline together: interpret the
// question, fetch the boards it needs, validate, analyze, assemble.
package agent

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/insights-cli/internal/analyze"
	"github.com/sells-group/insights-cli/internal/config"
	"github.com/sells-group/insights-cli/internal/model"
	"github.com/sells-group/insights-cli/internal/normalize"
	"github.com/sells-group/insights-cli/internal/query"
	"github.com/sells-group/insights-cli/internal/validate"
	"github.com/sells-group/insights-cli/pkg/monday"
)

// Board name keywords for auto-detection when neither an ID nor a name is
// configured.
var (
	dealsKeywords      = []string{"deal", "pipeline", "sales"}
	workOrdersKeywords = []string{"work", "order", "project", "execution"}
)

// Agent answers free-text business questions from board data. Stateless
// between queries; safe for concurrent use.
type Agent struct {
	client      monday.Client
	cfg         *config.Config
	validator   *validate.Validator
	interpreter *query.Interpreter
	assembler   *analyze.Assembler

	// nowFunc allows test injection of time.
	nowFunc func() time.Time
}

// New creates an Agent. Vocabularies come from the configured override file
// or the built-in tables.
func New(client monday.Client, cfg *config.Config) (*Agent, error) {
	vocabs, err := normalize.LoadVocabularies(cfg.Vocab.Path)
	if err != nil {
		return nil, err
	}
	qcfg := query.Config{
		TokenWeight:  cfg.Query.TokenWeight,
		PhraseWeight: cfg.Query.PhraseWeight,
	}
	return &Agent{
		client:      client,
		cfg:         cfg,
		validator:   validate.New(vocabs),
		interpreter: query.New(qcfg, vocabs),
		assembler:   analyze.NewAssembler(cfg.Analysis),
		nowFunc:     time.Now,
	}, nil
}

// Answer runs the full pipeline for one question.
func (a *Agent) Answer(ctx context.Context, question string) (*model.Response, error) {
	started := a.nowFunc()
	intent := a.interpreter.Interpret(question)

	zap.L().Info("agent: interpreted query",
		zap.String("category", string(intent.Category)),
		zap.String("time_range", string(intent.TimeRange)),
		zap.Float64("confidence", intent.Confidence),
	)

	deals, workOrders, quality, err := a.loadRecords(ctx, intent)
	if err != nil {
		return nil, err
	}

	resp := a.assembler.Assemble(intent, deals, workOrders, quality, a.nowFunc())
	resp.ID = uuid.NewString()

	zap.L().Info("agent: query answered",
		zap.String("response_id", resp.ID),
		zap.Int("total_records", quality.TotalRecords),
		zap.Float64("confidence_score", quality.ConfidenceScore),
		zap.Duration("elapsed", a.nowFunc().Sub(started)),
	)
	return &resp, nil
}

// needsBoard reports which boards a category analyzes. Unknown queries
// fetch nothing; the assembler answers them with guidance alone.
func needsBoard(category model.QueryCategory, board model.BoardKind) bool {
	switch category {
	case model.CategoryPipelineOverview:
		return board == model.BoardDeals
	case model.CategoryExecutionStatus:
		return board == model.BoardWorkOrders
	case model.CategoryRevenueForecast, model.CategoryLeadershipUpdate:
		return true
	default:
		return false
	}
}

// loadRecords fetches and validates the boards the intent needs,
// concurrently. A board that resolves to nothing contributes an empty set,
// not an error.
func (a *Agent) loadRecords(ctx context.Context, intent model.QueryIntent) (deals, workOrders []model.NormalizedRecord, quality model.QualityReport, err error) {
	var dealsQuality, woQuality model.QualityReport
	g, gctx := errgroup.WithContext(ctx)

	if needsBoard(intent.Category, model.BoardDeals) {
		g.Go(func() error {
			raw, err := a.fetchBoard(gctx, model.BoardDeals)
			if err != nil {
				return err
			}
			deals, dealsQuality = a.validator.Validate(raw, requiredFields(intent, model.BoardDeals))
			return nil
		})
	}
	if needsBoard(intent.Category, model.BoardWorkOrders) {
		g.Go(func() error {
			raw, err := a.fetchBoard(gctx, model.BoardWorkOrders)
			if err != nil {
				return err
			}
			workOrders, woQuality = a.validator.Validate(raw, requiredFields(intent, model.BoardWorkOrders))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, model.QualityReport{}, err
	}
	return deals, workOrders, dealsQuality.Merge(woQuality), nil
}

// requiredFields extends the category's required fields with the board's
// date field when the query is time-filtered.
func requiredFields(intent model.QueryIntent, board model.BoardKind) []string {
	fields := validate.RequiredFields(intent.Category, board)
	if intent.TimeRange == model.RangeAllTime {
		return fields
	}
	dateField := model.FieldCloseDate
	if board == model.BoardWorkOrders {
		dateField = model.FieldStartDate
	}
	return append(fields, dateField)
}

// fetchBoard resolves a board and converts its items to raw records.
func (a *Agent) fetchBoard(ctx context.Context, board model.BoardKind) ([]model.RawRecord, error) {
	boardID, err := a.resolveBoard(ctx, board)
	if err != nil {
		return nil, err
	}
	if boardID == "" {
		zap.L().Warn("agent: board not found", zap.String("board", string(board)))
		return nil, nil
	}

	items, err := a.client.BoardItems(ctx, boardID)
	if err != nil {
		return nil, eris.Wrapf(err, "agent: fetch %s items", board)
	}
	return convertItems(items, board, a.columnMapping(board)), nil
}

func (a *Agent) columnMapping(board model.BoardKind) map[string]string {
	if board == model.BoardWorkOrders {
		return a.cfg.Columns.WorkOrders
	}
	return a.cfg.Columns.Deals
}

// resolveBoard finds a board ID: configured ID first, then configured name,
// then keyword auto-detection over the board list.
func (a *Agent) resolveBoard(ctx context.Context, board model.BoardKind) (string, error) {
	var id, name string
	keywords := dealsKeywords
	if board == model.BoardWorkOrders {
		id, name = a.cfg.Boards.WorkOrdersID, a.cfg.Boards.WorkOrdersName
		keywords = workOrdersKeywords
	} else {
		id, name = a.cfg.Boards.DealsID, a.cfg.Boards.DealsName
	}

	if id != "" {
		return id, nil
	}
	if name != "" {
		b, err := a.client.BoardByName(ctx, name)
		if err != nil {
			return "", eris.Wrapf(err, "agent: resolve %s board", board)
		}
		if b != nil {
			return b.ID, nil
		}
	}

	boards, err := a.client.Boards(ctx)
	if err != nil {
		return "", eris.Wrapf(err, "agent: list boards for %s", board)
	}
	for _, b := range boards {
		lower := strings.ToLower(b.Name)
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				return b.ID, nil
			}
		}
	}
	return "", nil
}

// Boards lists reachable boards for connection diagnostics.
func (a *Agent) Boards(ctx context.Context) ([]monday.Board, error) {
	return a.client.Boards(ctx)
}

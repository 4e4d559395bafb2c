package deduction

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tu-usuario/pos-inventory/internal/domain"
	"github.com/tu-usuario/pos-inventory/internal/domain/entity"
)

// State es el estado de la máquina del orquestador para una venta.
type State string

const (
	StateExpanding  State = "expanding"
	StateResolving  State = "resolving"
	StateValidating State = "validating"
	StateDeducting  State = "deducting"
	StateCompleted  State = "completed"
	StateFailed     State = "failed"
)

// Config política del orquestador.
type Config struct {
	// BlockOnShortfall decide si un faltante detectado en la validación
	// bloquea la venta (errores) o solo advierte (warnings). El ejecutor
	// re-verifica en el punto de mutación en ambos casos.
	BlockOnShortfall bool
	// Timeout plazo por venta cuando el caller no trae deadline propio.
	Timeout time.Duration
}

// SaleInput es la entrada del motor para una venta completada.
type SaleInput struct {
	SaleID  string
	StoreID string
	ActorID string
	Lines   []entity.SaleLine
}

// DeductionOutcome es el resultado de procesar una venta. Valor de retorno,
// no se persiste: el caller decide el estado final de la venta con base en él.
type DeductionOutcome struct {
	SaleID     string
	State      State
	Deducted   []DeductionSummary
	Shortfalls []Shortfall
	Errors     []error
	Warnings   []string
}

// Succeeded indica si el efecto de inventario de la venta es confiable.
func (o *DeductionOutcome) Succeeded() bool { return o.State == StateCompleted }

// Orchestrator conduce el pipeline completo por venta:
// expandir combos → resolver cada línea → validar → descontar.
// Una sola ruta canónica detrás de una sola interfaz; las líneas
// independientes y sus ingredientes corren concurrentemente.
type Orchestrator struct {
	expander *ComboExpander
	resolver *IngredientResolver
	checker  *AvailabilityChecker
	executor *DeductionExecutor
	cfg      Config
	log      zerolog.Logger
}

// NewOrchestrator construye el orquestador.
func NewOrchestrator(
	expander *ComboExpander,
	resolver *IngredientResolver,
	checker *AvailabilityChecker,
	executor *DeductionExecutor,
	cfg Config,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		expander: expander,
		resolver: resolver,
		checker:  checker,
		executor: executor,
		cfg:      cfg,
		log:      log,
	}
}

// ProcessSale procesa una venta completa. Contrato de error: si el outcome
// termina en Failed, el error de retorno es no-nil y el caller está obligado
// a tratar el efecto de inventario de la venta como no confiable. Los errores
// de deducción jamás se tragan.
//
// Reprocesar el mismo sale id NO es un no-op: vuelve a descontar. La
// de-duplicación es responsabilidad del caller.
func (o *Orchestrator) ProcessSale(ctx context.Context, input SaleInput) (*DeductionOutcome, error) {
	outcome := &DeductionOutcome{SaleID: input.SaleID, State: StateExpanding}

	if input.ActorID == "" {
		return o.fail(outcome, domain.ErrAuthenticationMissing)
	}
	if input.SaleID == "" || input.StoreID == "" || len(input.Lines) == 0 {
		return o.fail(outcome, domain.ErrInvalidInput)
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return o.fail(outcome, domain.ErrInvalidInput)
		}
	}

	if _, ok := ctx.Deadline(); !ok && o.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.cfg.Timeout)
		defer cancel()
	}

	log := o.log.With().Str("sale_id", input.SaleID).Str("store_id", input.StoreID).Logger()

	// Expanding: los combos se reescriben a término antes de cualquier otra
	// fase; un error aquí falla la venta completa.
	expanded, err := o.expander.Expand(input.StoreID, input.Lines)
	if err != nil {
		log.Error().Err(err).Msg("expansión de combos fallida")
		return o.fail(outcome, err)
	}
	log.Debug().Int("lines", len(input.Lines)).Int("expanded", len(expanded)).Msg("combos expandidos")

	if err := o.phaseDeadline(ctx); err != nil {
		return o.fail(outcome, err)
	}

	// Resolving: una goroutine por línea expandida. Un error de resolución es
	// duro para su línea pero no detiene a las hermanas; todo se junta en la
	// barrera antes de validar.
	outcome.State = StateResolving
	resolutions := make([]*LineResolution, len(expanded))
	lineErrs := make([]error, len(expanded))
	var wg sync.WaitGroup
	for i, line := range expanded {
		wg.Add(1)
		go func(i int, line entity.SaleLine) {
			defer wg.Done()
			resolutions[i], lineErrs[i] = o.resolver.ResolveLine(line)
		}(i, line)
	}
	wg.Wait()

	for i, err := range lineErrs {
		if err != nil {
			log.Warn().Err(err).Str("product", expanded[i].ProductName).Msg("línea no resoluble")
			outcome.Errors = append(outcome.Errors, err)
		}
	}
	for _, res := range resolutions {
		if res != nil {
			outcome.Warnings = append(outcome.Warnings, res.Warnings...)
		}
	}

	if err := o.phaseDeadline(ctx); err != nil {
		return o.fail(outcome, err)
	}

	// Validating: consultivo salvo que la política diga bloquear. No es la
	// única guarda de corrección: el ejecutor re-verifica bajo lock.
	outcome.State = StateValidating
	aggregated := AggregateRequirements(resolutions)
	report, err := o.checker.Check(aggregated)
	if err != nil {
		return o.fail(outcome, err)
	}
	outcome.Shortfalls = report.Shortfalls
	for _, s := range report.Shortfalls {
		if o.cfg.BlockOnShortfall {
			outcome.Errors = append(outcome.Errors, domain.NewShortfallError(s.ItemName, s.Required, s.Available))
		} else {
			outcome.Warnings = append(outcome.Warnings, s.String())
		}
	}
	if o.cfg.BlockOnShortfall && !report.CanProceed {
		log.Warn().Int("shortfalls", len(report.Shortfalls)).Msg("venta bloqueada por faltantes")
		return o.failCollected(outcome)
	}

	if err := o.phaseDeadline(ctx); err != nil {
		return o.fail(outcome, err)
	}

	// Deducting: una goroutine por par (línea, ingrediente). Cada falla
	// individual se recolecta; ninguna tarea en vuelo se cancela a mitad de
	// mutación (la tx confirma o revierte por sí sola).
	outcome.State = StateDeducting
	type task struct{ req DeductionRequest }
	var tasks []task
	for _, res := range resolutions {
		if res == nil {
			continue
		}
		for _, req := range res.Requires {
			if req.InventoryItemID == "" {
				continue // ya reportado como warning en la resolución
			}
			tasks = append(tasks, task{req: DeductionRequest{
				InventoryItemID: req.InventoryItemID,
				ItemName:        req.IngredientName,
				Quantity:        req.Quantity,
				SaleID:          input.SaleID,
				StoreID:         input.StoreID,
				ActorID:         input.ActorID,
			}})
		}
	}

	summaries := make([]*DeductionSummary, len(tasks))
	taskErrs := make([]error, len(tasks))
	for i, t := range tasks {
		wg.Add(1)
		go func(i int, req DeductionRequest) {
			defer wg.Done()
			summaries[i], taskErrs[i] = o.executor.Deduct(ctx, req)
		}(i, t.req)
	}
	wg.Wait()

	for i, err := range taskErrs {
		if err != nil {
			log.Error().Err(err).Str("item", tasks[i].req.ItemName).Msg("descuento fallido")
			outcome.Errors = append(outcome.Errors, err)
			continue
		}
		outcome.Deducted = append(outcome.Deducted, *summaries[i])
	}

	if err := o.phaseDeadline(ctx); err != nil {
		return o.fail(outcome, err)
	}

	// Terminal: Completed solo con cero fallas (de resolución o descuento).
	if len(outcome.Errors) > 0 {
		return o.failCollected(outcome)
	}
	outcome.State = StateCompleted
	log.Info().Int("deducted", len(outcome.Deducted)).Int("warnings", len(outcome.Warnings)).Msg("venta descontada")
	return outcome, nil
}

// phaseDeadline traduce la expiración del deadline del caller al error de
// dominio Timeout. Se evalúa en las fronteras de fase.
func (o *Orchestrator) phaseDeadline(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return domain.NewDeductionError(domain.ErrTimeout, "venta")
	}
	return nil
}

func (o *Orchestrator) fail(outcome *DeductionOutcome, err error) (*DeductionOutcome, error) {
	outcome.Errors = append(outcome.Errors, err)
	return o.failCollected(outcome)
}

func (o *Orchestrator) failCollected(outcome *DeductionOutcome) (*DeductionOutcome, error) {
	outcome.State = StateFailed
	return outcome, errors.Join(outcome.Errors...)
}

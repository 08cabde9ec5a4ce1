package paper

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"gitlab.com/aoterocom/AOForexSignals/helpers"
	"gitlab.com/aoterocom/AOForexSignals/models"
)

var ErrNotConnected = errors.New("payment provider is not connected")

type ConnectionState int

const (
	Disconnected ConnectionState = iota
	Connecting
	Connected
	Failed
)

func (cs ConnectionState) String() string {
	switch cs {
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Failed:
		return "failed"
	default:
		return "disconnected"
	}
}

// PaperPaymentService simulates the store billing flow. Outcomes are fixed at
// construction; nothing is charged.
type PaperPaymentService struct {
	mu         sync.Mutex
	state      ConnectionState
	succeed    bool
	connectErr error
	purchased  bool
}

func NewPaperPaymentService(succeed bool) *PaperPaymentService {
	return &PaperPaymentService{succeed: succeed}
}

// FailConnections makes the next Connect calls fail with err
func (pps *PaperPaymentService) FailConnections(err error) {
	pps.mu.Lock()
	defer pps.mu.Unlock()
	pps.connectErr = err
}

func (pps *PaperPaymentService) Connect(ctx context.Context) error {
	pps.mu.Lock()
	defer pps.mu.Unlock()
	if pps.state == Connected {
		return nil
	}
	pps.state = Connecting
	if err := ctx.Err(); err != nil {
		pps.state = Failed
		return err
	}
	if pps.connectErr != nil {
		pps.state = Failed
		return pps.connectErr
	}
	pps.state = Connected
	helpers.Logger.Debugln("Paper payment provider connected")
	return nil
}

func (pps *PaperPaymentService) State() ConnectionState {
	pps.mu.Lock()
	defer pps.mu.Unlock()
	return pps.state
}

func (pps *PaperPaymentService) IsConnected() bool {
	return pps.State() == Connected
}

func (pps *PaperPaymentService) Disconnect() {
	pps.mu.Lock()
	defer pps.mu.Unlock()
	pps.state = Disconnected
}

func (pps *PaperPaymentService) Purchase(ctx context.Context) (models.PurchaseResult, error) {
	pps.mu.Lock()
	defer pps.mu.Unlock()
	if pps.state != Connected {
		return models.PurchaseResult{}, ErrNotConnected
	}
	if !pps.succeed {
		return models.PurchaseResult{Success: false, Error: "purchase cancelled by user"}, nil
	}
	pps.purchased = true
	return models.PurchaseResult{Success: true, TransactionID: "paper-" + uuid.NewString()}, nil
}

// Restore reports premium only after a successful purchase in this process
func (pps *PaperPaymentService) Restore(ctx context.Context) (models.RestoreResult, error) {
	pps.mu.Lock()
	defer pps.mu.Unlock()
	if pps.state != Connected {
		return models.RestoreResult{}, ErrNotConnected
	}
	return models.RestoreResult{Success: true, HasPremium: pps.purchased}, nil
}

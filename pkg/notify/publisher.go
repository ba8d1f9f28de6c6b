package notify

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.nanomsg.org/mangos/v3"
	"go.nanomsg.org/mangos/v3/protocol/pub"

	// Register all transports
	_ "go.nanomsg.org/mangos/v3/transport/all"

	"github.com/dd0wney/cluso-egress/pkg/logging"
	"github.com/dd0wney/cluso-egress/pkg/metrics"
)

// Publisher broadcasts run summaries to subscribers.
// Single responsibility: fan out summaries without blocking a run.
type Publisher struct {
	socket      mangos.Socket
	addr        string
	sendTimeout time.Duration
	stream      chan *RunSummary
	stopCh      chan struct{}
	wg          sync.WaitGroup
	running     bool
	runningMu   sync.Mutex
	reg         *metrics.Registry
}

// NewPublisher creates a publisher for cfg. The socket is not bound until
// Start. A nil reg selects the default metrics registry.
func NewPublisher(cfg Config, reg *metrics.Registry) (*Publisher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	socket, err := pub.NewSocket()
	if err != nil {
		return nil, fmt.Errorf("failed to create PUB socket: %w", err)
	}

	if reg == nil {
		reg = metrics.DefaultRegistry()
	}

	return &Publisher{
		socket:      socket,
		addr:        cfg.ListenAddr,
		sendTimeout: cfg.SendTimeout,
		stream:      make(chan *RunSummary, cfg.BufferSize),
		stopCh:      make(chan struct{}),
		reg:         reg,
	}, nil
}

// Start binds the socket and begins broadcasting queued summaries.
func (p *Publisher) Start() error {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if p.running {
		return fmt.Errorf("publisher already running")
	}

	if err := p.socket.Listen(p.addr); err != nil {
		return fmt.Errorf("failed to bind PUB socket to %s: %w", p.addr, err)
	}
	if err := p.socket.SetOption(mangos.OptionSendDeadline, p.sendTimeout); err != nil {
		return fmt.Errorf("failed to set send deadline: %w", err)
	}

	p.running = true
	p.wg.Add(1)
	go p.publishLoop()

	logging.Info("run summary publisher started",
		logging.Component("notify"), logging.String("addr", p.addr))
	return nil
}

// Stop stops the publisher. Summaries queued before the stop are still
// sent, each bounded by the send deadline, then the socket closes.
func (p *Publisher) Stop() error {
	p.runningMu.Lock()
	defer p.runningMu.Unlock()

	if !p.running {
		return nil
	}

	close(p.stopCh)
	p.running = false
	p.wg.Wait()

	if err := p.socket.Close(); err != nil {
		logging.Warn("failed to close publisher socket",
			logging.Component("notify"), logging.Error(err))
	}

	logging.Info("run summary publisher stopped", logging.Component("notify"))
	return nil
}

// Publish queues a summary for broadcast. A full buffer drops the summary
// rather than blocking the caller.
func (p *Publisher) Publish(summary *RunSummary) error {
	select {
	case <-p.stopCh:
		p.reg.RecordNotifyPublish("error")
		return fmt.Errorf("publisher stopped")
	default:
	}

	select {
	case p.stream <- summary:
		return nil
	default:
		p.reg.RecordNotifyPublish("dropped")
		logging.Warn("summary buffer full, dropping",
			logging.Component("notify"), logging.RunID(summary.RunID))
		return nil
	}
}

func (p *Publisher) publishLoop() {
	defer p.wg.Done()

	for {
		select {
		case <-p.stopCh:
			// Drain what was queued before the stop.
			for {
				select {
				case summary := <-p.stream:
					p.send(summary)
				default:
					return
				}
			}
		case summary := <-p.stream:
			p.send(summary)
		}
	}
}

func (p *Publisher) send(summary *RunSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		p.reg.RecordNotifyPublish("error")
		logging.ErrorLog("failed to marshal run summary",
			logging.Component("notify"), logging.RunID(summary.RunID), logging.Error(err))
		return
	}

	// Prepend topic for subscriber-side filtering
	msg := append([]byte(TopicRun), data...)
	if err := p.socket.Send(msg); err != nil {
		p.reg.RecordNotifyPublish("error")
		logging.ErrorLog("failed to publish run summary",
			logging.Component("notify"), logging.RunID(summary.RunID), logging.Error(err))
		return
	}

	p.reg.RecordNotifyPublish("success")
}

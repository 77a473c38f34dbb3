// internal/writer/builder.go
package writer

import (
	"errors"
	"time"

	"go.uber.org/multierr"

	cfg "github.com/tamzrod/rover-ranging/internal/config"
	wmodbus "github.com/tamzrod/rover-ranging/internal/writer/modbus"
)

// BuildPlan converts the publish config into a Writer Plan.
// Assumes config has already passed conflict validation.
func BuildPlan(r cfg.RoverConfig) (Plan, error) {
	if r.Name == "" {
		return Plan{}, errors.New("writer: rover.name required")
	}

	plan := Plan{Name: r.Name}

	for _, t := range r.Publish.Targets {
		plan.Targets = append(plan.Targets, Target{
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
		})
	}

	if s := r.Publish.Status; s != nil {
		plan.Status = &StatusPlan{
			Endpoint:   s.Endpoint,
			UnitID:     s.UnitID,
			BaseSlot:   s.Slot,
			DeviceName: s.DeviceName,
		}
	}

	return plan, nil
}

// BuildEndpointClients creates one TCP client per unique endpoint,
// data targets and status block together.
func BuildEndpointClients(r cfg.RoverConfig) (map[string]EndpointClient, func() error, error) {
	return buildEndpointClients(r, func(c wmodbus.Config) (endpoint, error) {
		return wmodbus.NewEndpointClient(c)
	})
}

type endpoint interface {
	EndpointClient
	Close() error
}

func buildEndpointClients(
	r cfg.RoverConfig,
	dial func(wmodbus.Config) (endpoint, error),
) (map[string]EndpointClient, func() error, error) {
	// endpoint -> longest configured timeout
	unique := map[string]int{}
	order := []string{}
	note := func(ep string, timeoutMs int) {
		prev, seen := unique[ep]
		if !seen {
			order = append(order, ep)
		}
		if !seen || timeoutMs > prev {
			unique[ep] = timeoutMs
		}
	}
	for _, t := range r.Publish.Targets {
		note(t.Endpoint, t.TimeoutMs)
	}
	if s := r.Publish.Status; s != nil {
		note(s.Endpoint, s.TimeoutMs)
	}

	clients := make(map[string]EndpointClient)
	var closers []func() error

	closeAll := func() error {
		var err error
		for _, fn := range closers {
			err = multierr.Append(err, fn())
		}
		return err
	}

	for _, ep := range order {
		c, err := dial(wmodbus.Config{
			Endpoint: ep,
			Timeout:  time.Duration(unique[ep]) * time.Millisecond,
		})
		if err != nil {
			_ = closeAll()
			return nil, nil, err
		}
		clients[ep] = c
		closers = append(closers, c.Close)
	}

	return clients, closeAll, nil
}

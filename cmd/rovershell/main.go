// cmd/rovershell/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/abiosoft/ishell/v2"

	"github.com/tamzrod/rover-ranging/internal/config"
	"github.com/tamzrod/rover-ranging/internal/drive"
	"github.com/tamzrod/rover-ranging/internal/rig"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: rovershell <config.yaml>")
	}

	cfg, err := config.Load(os.Args[1])
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	hw, err := rig.Open(cfg.Rover)
	if err != nil {
		log.Fatalf("rig open failed (unit=%s): %v", cfg.Rover.Name, err)
	}
	defer func() {
		if err := hw.Close(); err != nil {
			log.Printf("rig close failed (unit=%s): %v", cfg.Rover.Name, err)
		}
	}()

	if hw.Driver != nil {
		if err := hw.Driver.Init(); err != nil {
			_ = hw.Close()
			log.Fatalf("drive init failed (unit=%s): %v", cfg.Rover.Name, err)
		}
	}

	shell := ishell.New()
	shell.Println("Rover development shell (" + cfg.Rover.Name + ")")
	for _, cmd := range commands(hw) {
		shell.AddCmd(cmd)
	}
	shell.Run()
}

func commands(hw *rig.Rig) []*ishell.Cmd {
	cmds := []*ishell.Cmd{{
		Name: "measure",
		Help: "measure [count]: run measurement cycles",
		Func: func(c *ishell.Context) {
			n := 1
			if len(c.Args) >= 1 {
				v, err := strconv.Atoi(c.Args[0])
				if err != nil || v < 1 {
					c.Err(errors.New("count must be a positive integer"))
					return
				}
				n = v
			}
			for i := 0; i < n; i++ {
				r, err := hw.Sequencer.Measure()
				if err != nil {
					c.Println(err)
					continue
				}
				c.Printf("%d cm (pulse=%d start=%d end=%d)\n", r.Centimeters, r.Pulse, r.Start, r.End)
			}
		},
	}}

	if hw.Driver == nil {
		return cmds
	}
	d := hw.Driver

	for _, m := range []drive.Motion{drive.Forward, drive.Backward, drive.TurnLeft, drive.TurnRight, drive.Stop} {
		m := m
		cmds = append(cmds, &ishell.Cmd{
			Name: m.String(),
			Help: "drive " + m.String(),
			Func: func(c *ishell.Context) {
				if err := d.Apply(m); err != nil {
					c.Err(err)
				}
			},
		})
	}

	cmds = append(cmds,
		&ishell.Cmd{
			Name: "speed",
			Help: "speed <pct>: same duty cycle on every motor",
			Func: func(c *ishell.Context) {
				p, err := parsePercents(c.Args, 1)
				if err != nil {
					c.Err(err)
					return
				}
				if err := d.SetAllPercent(p[0]); err != nil {
					c.Err(err)
				}
			},
		},
		&ishell.Cmd{
			Name: "speeds",
			Help: "speeds <lf> <lr> <rf> <rr>: per-motor duty cycles",
			Func: func(c *ishell.Context) {
				p, err := parsePercents(c.Args, drive.NumMotors)
				if err != nil {
					c.Err(err)
					return
				}
				if err := d.SetEachPercent(p[0], p[1], p[2], p[3]); err != nil {
					c.Err(err)
				}
			},
		},
		&ishell.Cmd{
			Name: "state",
			Help: "show the last commanded motion and duty cycles",
			Func: func(c *ishell.Context) {
				st := d.State()
				c.Printf("%s %v\n", st.Motion, st.Percent)
			},
		},
	)

	return cmds
}

// parsePercents expects exactly n integers within 0..100.
func parsePercents(args []string, n int) ([]uint8, error) {
	if len(args) != n {
		return nil, fmt.Errorf("want %d values, got %d", n, len(args))
	}
	out := make([]uint8, n)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil || v < 0 || v > drive.MaxPercent {
			return nil, fmt.Errorf("%q: want a percentage within 0..%d", a, drive.MaxPercent)
		}
		out[i] = uint8(v)
	}
	return out, nil
}

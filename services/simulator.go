// services/simulator.go - Activity Simulator
//
// Periodically perturbs bot profiles so the leaderboard feels alive. This
// is a display mechanism only: it runs through Progression.MutateBots,
// which never exposes real player profiles, and it plays no part in any
// reward computation.
package services

import (
	"log"
	"math/rand"
	"time"

	"petpal/models"
)

type ActivitySimulator struct {
	facade   *Progression
	interval time.Duration
	rng      *rand.Rand

	stop chan struct{}
	done chan struct{}
}

// InitSimulator builds a simulator with a time-seeded rng. The caller
// owns the lifecycle; nothing else needs a handle to it.
func InitSimulator(facade *Progression, interval time.Duration) *ActivitySimulator {
	return NewSimulator(facade, interval, rand.New(rand.NewSource(time.Now().UnixNano())))
}

func NewSimulator(facade *Progression, interval time.Duration, rng *rand.Rand) *ActivitySimulator {
	return &ActivitySimulator{
		facade:   facade,
		interval: interval,
		rng:      rng,
	}
}

// Start launches the tick loop. Settlement of due tournaments piggybacks
// on the tick so ended windows pay out without a dedicated scheduler.
func (s *ActivitySimulator) Start() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		defer close(s.done)

		for {
			select {
			case <-ticker.C:
				s.Tick()
				s.facade.SettleDueTournaments(time.Now())
			case <-s.stop:
				return
			}
		}
	}()

	log.Printf("✅ Activity simulator started (interval %s)", s.interval)
}

// Stop cancels the tick loop and waits for it to exit, so no ticker
// outlives the session.
func (s *ActivitySimulator) Stop() {
	if s.stop == nil {
		return
	}
	close(s.stop)
	<-s.done
	s.stop = nil
	log.Println("Activity simulator stopped")
}

// Tick applies one round of bounded random perturbation to every bot
// profile: rank points drift by -5..+25 (floored at zero) and online
// status flips occasionally.
func (s *ActivitySimulator) Tick() {
	s.facade.MutateBots(func(p *models.PlayerProfile) {
		p.RankPoints += s.rng.Intn(31) - 5
		if p.RankPoints < 0 {
			p.RankPoints = 0
		}
		if s.rng.Intn(10) == 0 {
			p.Online = !p.Online
		}
		if p.Online {
			p.LastActive = time.Now()
		}
	})
}

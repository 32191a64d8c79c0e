package dialer

import (
	"context"
	"errors"
	"sync"
)

// BatchEntry is the outcome of one destination within a batch. Exactly one
// of Result and Error is set.
type BatchEntry struct {
	PhoneNumber string      `json:"phone_number"`
	Result      *CallResult `json:"result,omitempty"`
	Error       *CallError  `json:"error,omitempty"`
}

// CreateCalls dials every destination concurrently, one independent attempt
// per number. The returned slice has one entry per input number, in input
// order; a failed attempt is reported in place and never disturbs the
// other entries.
func (s *Service) CreateCalls(ctx context.Context, numbers []string) []BatchEntry {
	s.metrics.ObserveBatch(len(numbers))

	entries := make([]BatchEntry, len(numbers))
	var wg sync.WaitGroup
	for i, number := range numbers {
		wg.Add(1)
		go func(i int, number string) {
			defer wg.Done()
			entries[i].PhoneNumber = number
			res, err := s.CreateCall(ctx, CallRequest{PhoneNumber: number})
			if err != nil {
				var cerr *CallError
				if !errors.As(err, &cerr) {
					cerr = &CallError{Stage: StageSIPDial, Reason: err.Error(), err: err}
				}
				entries[i].Error = cerr
				return
			}
			entries[i].Result = &res
		}(i, number)
	}
	wg.Wait()
	return entries
}

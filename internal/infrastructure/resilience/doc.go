/*
Package resilience provides a circuit breaker for outbound provider calls.

A breaker trips after a run of failures and rejects calls with ErrCircuitOpen
until its timeout elapses. It then admits MaxRequests trial calls in half-open
state before closing again.

Settings.IsSuccessful lets callers count answers such as "no license" as
healthy upstream responses rather than failures.

# Usage

	breaker := resilience.New("github", resilience.Settings{
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c resilience.Counts) bool { return c.ConsecutiveFailures >= 5 },
	})

	spdx, err := resilience.Do(breaker, func() (string, error) {
		return fetch(ctx)
	})

# States

	Closed --[failures]-> Open --[timeout]-> Half-Open --[successes]-> Closed
	                                           |
	                                       [failure]
	                                           v
	                                          Open
*/
package resilience

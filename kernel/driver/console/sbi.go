// Package console provides the output devices that back the hypervisor log.
package console

import "zihai/kernel/cpu"

// putcharFn is mocked by tests.
var putcharFn = cpu.ConsolePutchar

// SBI is an io.Writer that emits bytes through the firmware's debug console.
// Line feeds are expanded to CR LF so the output renders on serial
// terminals.
type SBI struct{}

// Write implements io.Writer. It never fails.
func (SBI) Write(p []byte) (int, error) {
	for _, ch := range p {
		if ch == '\n' {
			putcharFn('\r')
		}
		putcharFn(ch)
	}

	return len(p), nil
}

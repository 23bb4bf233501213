package sim

// InjectReadError makes every read at address fail with err. A nil err clears it.
func (t *Target) InjectReadError(address uint32, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		delete(t.readErrs, address)
		return
	}
	t.readErrs[address] = err
}

// InjectWriteError makes every write at address fail with err. A nil err clears it.
func (t *Target) InjectWriteError(address uint32, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err == nil {
		delete(t.writeErrs, address)
		return
	}
	t.writeErrs[address] = err
}

// InjectPendingEventsError makes the pending-events query fail with err.
func (t *Target) InjectPendingEventsError(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.pendingErr = err
}

// Reads returns the number of reads issued at address.
func (t *Target) Reads(address uint32) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reads[address]
}

// Writes returns the number of writes issued at address.
func (t *Target) Writes(address uint32) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.writes[address]
}

// TotalWrites returns the number of writes issued at any address.
func (t *Target) TotalWrites() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, c := range t.writes {
		n += c
	}
	return n
}

// Polls returns the number of readiness polls, via registers or pending events.
func (t *Target) Polls() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.polls
}

// Commands returns the IDs of all handled commands, oldest first.
func (t *Target) Commands() []uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]uint32(nil), t.commands...)
}

// Buffered returns the number of response bytes waiting in the mailbox FIFO.
func (t *Target) Buffered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rx)
}

// CreditCount returns the command credits currently available.
func (t *Target) CreditCount() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.credits
}

// IsDone reports whether the target received Done.
func (t *Target) IsDone() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.done
}

// AppStart returns the entry point set by Set App Start.
func (t *Target) AppStart() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.appStart
}

// Scratch returns the scratch register.
func (t *Target) Scratch() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scratch
}

// SOCRegister returns a SoC register value.
func (t *Target) SOCRegister(address uint32) uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.registers[address]
}

// Memory returns n bytes of target memory starting at address.
func (t *Target) Memory(address uint32, n int) []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	data := make([]byte, n)
	for i := range data {
		data[i] = t.memory[address+uint32(i)]
	}
	return data
}

// LoadMemory stores data in target memory starting at address.
func (t *Target) LoadMemory(address uint32, data []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i, b := range data {
		t.memory[address+uint32(i)] = b
	}
}

// MailboxAddress returns the bus address of the bootstrap mailbox.
func (t *Target) MailboxAddress() uint32 {
	return t.bootMailbox()
}

// CreditDecAddress returns the address of the read-to-decrement credit counter.
func (t *Target) CreditDecAddress() uint32 {
	return t.creditDecAddress()
}

// CreditCountAddress returns the address of the plain credit counter.
func (t *Target) CreditCountAddress() uint32 {
	return t.creditCountAddress()
}


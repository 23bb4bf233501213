package sim

import (
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/moffa90/go-bmi/bmi"
	"github.com/moffa90/go-bmi/protocol"
)

// Target errors.
var (
	// ErrUnderrun indicates a mailbox read asked for more bytes than were buffered.
	ErrUnderrun = errors.New("mailbox underrun")

	// ErrBadMode indicates a transfer used a mode the address does not support.
	ErrBadMode = errors.New("unsupported transfer mode")
)

// Handler answers one command. It returns the response bytes to queue in
// the mailbox, or nil for commands without a response.
type Handler func(cmd []byte) []byte

// Target simulates the mailbox interface of a BMI target and implements bmi.Bus.
//
// Commands written to the bootstrap mailbox are handled immediately: the
// response is queued in the receive FIFO, becomes visible to status polls
// after the configured latency, and a command credit is returned.
//
// Target is safe for concurrent use.
type Target struct {
	mu     sync.Mutex
	config Config

	credits   uint32
	rx        []byte
	readyWait int

	memory    map[uint32]byte
	registers map[uint32]uint32
	scratch   uint32
	appStart  uint32
	done      bool

	readErrs  map[uint32]error
	writeErrs map[uint32]error
	pendingErr error

	reads    map[uint32]int
	writes   map[uint32]int
	polls    int
	commands []uint32
}

// New creates a new simulated target with the given options.
//
// Example:
//
//	target := sim.New(sim.WithLegacyTarget(0x20000188))
//	s := bmi.New(target)
func New(opts ...Option) *Target {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Target{
		config:    cfg,
		credits:   cfg.Credits,
		memory:    make(map[uint32]byte),
		registers: make(map[uint32]uint32),
		readErrs:  make(map[uint32]error),
		writeErrs: make(map[uint32]error),
		reads:     make(map[uint32]int),
		writes:    make(map[uint32]int),
	}
}

// MailboxAddresses implements bmi.Bus.
func (t *Target) MailboxAddresses() (bmi.MailboxTable, error) {
	var table bmi.MailboxTable
	for i := range table {
		table[i] = mailboxAddress(i)
	}
	return table, nil
}

// PendingEventsFunc implements bmi.Bus. It returns nil unless the target
// was created WithPendingEvents.
func (t *Target) PendingEventsFunc() (bmi.PendingEventsFunc, error) {
	if !t.config.PendingEvents {
		return nil, nil
	}
	return t.pendingEvents, nil
}

// ReadWrite implements bmi.Bus.
func (t *Target) ReadWrite(address uint32, buf []byte, mode bmi.Mode) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if mode.IsRead() {
		t.reads[address]++
		if err := t.readErrs[address]; err != nil {
			return err
		}
		return t.read(address, buf, mode)
	}

	t.writes[address]++
	if err := t.writeErrs[address]; err != nil {
		return err
	}
	return t.write(address, buf)
}

func (t *Target) read(address uint32, buf []byte, mode bmi.Mode) error {
	switch {
	case address == t.bootMailbox():
		if mode != bmi.ModeReadIncrement {
			return fmt.Errorf("%w: mailbox read in %s", ErrBadMode, mode)
		}
		if len(buf) > len(t.rx) {
			return fmt.Errorf("%w: want %d bytes, have %d", ErrUnderrun, len(buf), len(t.rx))
		}
		copy(buf, t.rx)
		t.rx = t.rx[len(buf):]

	case address == t.creditDecAddress():
		putRegister(buf, t.credits|t.config.RegisterNoise)
		if t.credits > 0 {
			t.credits--
		}

	case address == t.creditCountAddress():
		putRegister(buf, t.credits|t.config.RegisterNoise)

	case address == protocol.HostIntStatusAddress:
		putRegister(buf, t.pollDataBits()<<protocol.HostIntStatusMboxDataShift|t.config.RegisterNoise&^protocol.HostIntStatusMboxDataMask)

	case address == protocol.RxLookaheadValidAddress:
		putRegister(buf, t.pollDataBits())

	case address == protocol.ScratchAddress:
		putRegister(buf, t.scratch)

	default:
		putRegister(buf, t.registers[address])
	}
	return nil
}

func (t *Target) write(address uint32, buf []byte) error {
	switch {
	case address == t.bootMailbox():
		t.handleCommand(buf)
	case address == protocol.ScratchAddress:
		t.scratch = getRegister(buf)
	default:
		t.registers[address] = getRegister(buf)
	}
	return nil
}

// pollDataBits returns the mailbox data-pending bits as seen by one status poll.
func (t *Target) pollDataBits() uint32 {
	t.polls++
	if t.ready() {
		return 1 << t.config.Endpoint
	}
	return 0
}

// ready counts down the readiness latency while data is buffered.
func (t *Target) ready() bool {
	if t.config.NeverReady || len(t.rx) < protocol.WordSize {
		return false
	}
	if t.readyWait > 0 {
		t.readyWait--
		return false
	}
	return true
}

func (t *Target) pendingEvents() (bmi.PendingEvents, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var events bmi.PendingEvents
	t.polls++
	if t.pendingErr != nil {
		return events, t.pendingErr
	}
	if t.ready() {
		events.AvailableRecvBytes[t.config.Endpoint] = uint32(len(t.rx))
	}
	return events, nil
}

func (t *Target) handleCommand(cmd []byte) {
	id, err := protocol.ParseCommandID(cmd)
	if err != nil {
		return
	}
	t.commands = append(t.commands, id)

	var resp []byte
	if h, ok := t.config.Handlers[id]; ok {
		resp = h(cmd)
	} else {
		resp = t.defaultHandler(id, cmd)
	}

	if len(resp) > 0 {
		t.rx = append(t.rx, resp...)
		t.readyWait = t.config.ReadyLatency
	}
	if t.config.CreditRefill && !t.done {
		t.credits++
	}
}

func (t *Target) defaultHandler(id uint32, cmd []byte) []byte {
	arg := func(i int) uint32 {
		off := protocol.WordSize * (i + 1)
		if len(cmd) < off+protocol.WordSize {
			return 0
		}
		return binary.LittleEndian.Uint32(cmd[off:])
	}

	switch id {
	case protocol.CmdGetTargetInfo:
		return t.targetInfoReply()

	case protocol.CmdDone:
		t.done = true

	case protocol.CmdReadMemory:
		addr, n := arg(0), arg(1)
		resp := make([]byte, n)
		for i := range resp {
			resp[i] = t.memory[addr+uint32(i)]
		}
		return resp

	case protocol.CmdWriteMemory:
		addr, n := arg(0), int(arg(1))
		data := cmd[protocol.WriteMemoryHeaderSize:]
		for i := 0; i < n && i < len(data); i++ {
			t.memory[addr+uint32(i)] = data[i]
		}

	case protocol.CmdExecute:
		result := arg(1)
		if t.config.Execute != nil {
			result = t.config.Execute(arg(0), arg(1))
		}
		return protocol.EncodeWord(result)

	case protocol.CmdSetAppStart:
		t.appStart = arg(0)

	case protocol.CmdReadSOCRegister:
		return protocol.EncodeWord(t.registers[arg(0)])

	case protocol.CmdWriteSOCRegister:
		t.registers[arg(0)] = arg(1)
	}
	return nil
}

// targetInfoReply builds what the target sends for Get Target Info.
func (t *Target) targetInfoReply() []byte {
	if t.config.Legacy {
		return protocol.EncodeWord(t.config.Version)
	}

	reply := protocol.EncodeWord(protocol.TargetVersionSentinel)
	reply = append(reply, protocol.EncodeWord(t.config.ByteCount)...)

	body := make([]byte, max(int(t.config.ByteCount), protocol.TargetInfoSize)-protocol.WordSize)
	binary.LittleEndian.PutUint32(body[0:4], t.config.Version)
	binary.LittleEndian.PutUint32(body[4:8], t.config.Type)
	return append(reply, body...)
}

func (t *Target) bootMailbox() uint32 {
	return mailboxAddress(t.config.Endpoint)
}

func (t *Target) creditDecAddress() uint32 {
	return protocol.CountDecAddress + uint32(protocol.MailboxCount+t.config.Endpoint)*protocol.RegisterSize
}

func (t *Target) creditCountAddress() uint32 {
	return protocol.CountAddress + uint32(protocol.MailboxCount+t.config.Endpoint)
}

func mailboxAddress(mbox int) uint32 {
	return protocol.MailboxBaseAddress + uint32(mbox)*protocol.MailboxWidth
}

// putRegister stores v little-endian into buf, truncating to len(buf).
func putRegister(buf []byte, v uint32) {
	var word [protocol.RegisterSize]byte
	binary.LittleEndian.PutUint32(word[:], v)
	copy(buf, word[:])
}

func getRegister(buf []byte) uint32 {
	var word [protocol.RegisterSize]byte
	copy(word[:], buf)
	return binary.LittleEndian.Uint32(word[:])
}

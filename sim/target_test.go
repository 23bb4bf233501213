package sim

import (
	"encoding/binary"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/moffa90/go-bmi/bmi"
	"github.com/moffa90/go-bmi/protocol"
)

func readWord(t *Target, address uint32, mode bmi.Mode) uint32 {
	buf := make([]byte, 4)
	Expect(t.ReadWrite(address, buf, mode)).To(Succeed())
	return binary.LittleEndian.Uint32(buf)
}

var _ = Describe("Target", func() {
	var target *Target

	BeforeEach(func() {
		target = New()
	})

	It("reports one mailbox address per endpoint", func() {
		table, err := target.MailboxAddresses()
		Expect(err).NotTo(HaveOccurred())
		Expect(table[0]).To(Equal(uint32(0x800)))
		Expect(table[1]).To(Equal(uint32(0x1000)))
		Expect(target.MailboxAddress()).To(Equal(table[protocol.Endpoint1]))
	})

	It("has no pending events query by default", func() {
		fn, err := target.PendingEventsFunc()
		Expect(err).NotTo(HaveOccurred())
		Expect(fn).To(BeNil())
	})

	Context("credit counters", func() {
		It("decrements the credit on every read of the decrement counter", func() {
			target = New(WithCredits(2))

			Expect(readWord(target, target.CreditDecAddress(), bmi.ModeReadIncrement)).To(Equal(uint32(2)))
			Expect(readWord(target, target.CreditDecAddress(), bmi.ModeReadIncrement)).To(Equal(uint32(1)))
			Expect(readWord(target, target.CreditDecAddress(), bmi.ModeReadIncrement)).To(Equal(uint32(0)))
			Expect(target.CreditCount()).To(BeZero())
		})

		It("leaves the credit alone on reads of the plain counter", func() {
			Expect(readWord(target, target.CreditCountAddress(), bmi.ModeReadFixed)).To(Equal(uint32(1)))
			Expect(readWord(target, target.CreditCountAddress(), bmi.ModeReadFixed)).To(Equal(uint32(1)))
		})

		It("puts noise in the upper bytes only", func() {
			target = New(WithRegisterNoise(0xFFFFFFFF))

			v := readWord(target, target.CreditDecAddress(), bmi.ModeReadIncrement)
			Expect(v & protocol.CreditMask).To(Equal(uint32(1)))
			Expect(v &^ protocol.CreditMask).To(Equal(uint32(0xFFFFFF00)))
		})

		It("returns a credit after each command", func() {
			readWord(target, target.CreditDecAddress(), bmi.ModeReadIncrement)
			Expect(target.CreditCount()).To(BeZero())

			Expect(target.ReadWrite(target.MailboxAddress(), protocol.BuildSetAppStartCmd(0x945000), bmi.ModeWriteIncrement)).To(Succeed())
			Expect(target.CreditCount()).To(Equal(uint32(1)))
		})

		It("never grants credits when configured without them", func() {
			target = New(WithoutCredits())

			Expect(readWord(target, target.CreditDecAddress(), bmi.ModeReadIncrement)).To(BeZero())
			Expect(target.ReadWrite(target.MailboxAddress(), protocol.BuildDoneCmd(), bmi.ModeWriteIncrement)).To(Succeed())
			Expect(target.CreditCount()).To(BeZero())
		})
	})

	Context("readiness", func() {
		send := func(cmd []byte) {
			Expect(target.ReadWrite(target.MailboxAddress(), cmd, bmi.ModeWriteIncrement)).To(Succeed())
		}

		It("reports no data while the FIFO is empty", func() {
			Expect(readWord(target, protocol.RxLookaheadValidAddress, bmi.ModeReadIncrement)).To(BeZero())
			Expect(readWord(target, protocol.HostIntStatusAddress, bmi.ModeReadIncrement) & protocol.HostIntStatusMboxDataMask).To(BeZero())
		})

		It("sets the endpoint bit in both status registers once a response is queued", func() {
			send(protocol.BuildGetTargetInfoCmd())

			Expect(readWord(target, protocol.RxLookaheadValidAddress, bmi.ModeReadIncrement)).To(Equal(uint32(1)))
			Expect(readWord(target, protocol.HostIntStatusAddress, bmi.ModeReadIncrement) & protocol.HostIntStatusMboxDataMask).To(Equal(uint32(1)))
		})

		It("delays the data bits by the configured latency", func() {
			target = New(WithReadyLatency(2))
			send(protocol.BuildGetTargetInfoCmd())

			Expect(readWord(target, protocol.RxLookaheadValidAddress, bmi.ModeReadIncrement)).To(BeZero())
			Expect(readWord(target, protocol.RxLookaheadValidAddress, bmi.ModeReadIncrement)).To(BeZero())
			Expect(readWord(target, protocol.RxLookaheadValidAddress, bmi.ModeReadIncrement)).To(Equal(uint32(1)))
			Expect(target.Polls()).To(Equal(3))
		})

		It("reports buffered bytes through the pending events query", func() {
			target = New(WithPendingEvents())
			fn, err := target.PendingEventsFunc()
			Expect(err).NotTo(HaveOccurred())
			Expect(fn).NotTo(BeNil())

			events, err := fn()
			Expect(err).NotTo(HaveOccurred())
			Expect(events.AvailableRecvBytes[protocol.Endpoint1]).To(BeZero())

			send(protocol.BuildGetTargetInfoCmd())
			events, err = fn()
			Expect(err).NotTo(HaveOccurred())
			Expect(events.AvailableRecvBytes[protocol.Endpoint1]).To(Equal(uint32(16)))
		})

		It("never reports data when configured never ready", func() {
			target = New(WithNeverReady())
			send(protocol.BuildGetTargetInfoCmd())

			Expect(readWord(target, protocol.RxLookaheadValidAddress, bmi.ModeReadIncrement)).To(BeZero())
			Expect(target.Buffered()).To(Equal(16))
		})
	})

	Context("commands", func() {
		send := func(cmd []byte) {
			Expect(target.ReadWrite(target.MailboxAddress(), cmd, bmi.ModeWriteIncrement)).To(Succeed())
		}
		recv := func(n int) []byte {
			buf := make([]byte, n)
			Expect(target.ReadWrite(target.MailboxAddress(), buf, bmi.ModeReadIncrement)).To(Succeed())
			return buf
		}

		It("answers get target info with the extended record", func() {
			target = New(WithTargetInfo(0x30000582, protocol.TargetTypeAR6003))
			send(protocol.BuildGetTargetInfoCmd())

			Expect(binary.LittleEndian.Uint32(recv(4))).To(Equal(uint32(protocol.TargetVersionSentinel)))
			Expect(binary.LittleEndian.Uint32(recv(4))).To(Equal(uint32(protocol.TargetInfoSize)))
			body := recv(8)
			Expect(binary.LittleEndian.Uint32(body[0:4])).To(Equal(uint32(0x30000582)))
			Expect(binary.LittleEndian.Uint32(body[4:8])).To(Equal(uint32(protocol.TargetTypeAR6003)))
			Expect(target.Buffered()).To(BeZero())
		})

		It("answers get target info with a bare version when legacy", func() {
			target = New(WithLegacyTarget(0x20000188))
			send(protocol.BuildGetTargetInfoCmd())

			Expect(target.Buffered()).To(Equal(4))
			Expect(binary.LittleEndian.Uint32(recv(4))).To(Equal(uint32(0x20000188)))
		})

		It("stores and returns memory", func() {
			cmd, err := protocol.BuildWriteMemoryCmd(0x400000, []byte{1, 2, 3, 4, 5})
			Expect(err).NotTo(HaveOccurred())
			send(cmd)
			Expect(target.Memory(0x400000, 5)).To(Equal([]byte{1, 2, 3, 4, 5}))

			cmd, err = protocol.BuildReadMemoryCmd(0x400001, 3)
			Expect(err).NotTo(HaveOccurred())
			send(cmd)
			Expect(recv(3)).To(Equal([]byte{2, 3, 4}))
		})

		It("handles SoC registers, app start and execute", func() {
			send(protocol.BuildWriteSOCRegisterCmd(0x4020, 0xCAFE))
			Expect(target.SOCRegister(0x4020)).To(Equal(uint32(0xCAFE)))

			send(protocol.BuildReadSOCRegisterCmd(0x4020))
			Expect(binary.LittleEndian.Uint32(recv(4))).To(Equal(uint32(0xCAFE)))

			send(protocol.BuildSetAppStartCmd(0x945000))
			Expect(target.AppStart()).To(Equal(uint32(0x945000)))

			send(protocol.BuildExecuteCmd(0x940000, 42))
			Expect(binary.LittleEndian.Uint32(recv(4))).To(Equal(uint32(42)))
		})

		It("uses command handler overrides", func() {
			target = New(WithHandler(protocol.CmdDone, func([]byte) []byte {
				return []byte{0xAA, 0xBB, 0xCC, 0xDD}
			}))
			send(protocol.BuildDoneCmd())

			Expect(recv(4)).To(Equal([]byte{0xAA, 0xBB, 0xCC, 0xDD}))
			Expect(target.IsDone()).To(BeFalse())
			Expect(target.Commands()).To(Equal([]uint32{protocol.CmdDone}))
		})

		It("fails reads beyond the buffered response", func() {
			buf := make([]byte, 4)
			err := target.ReadWrite(target.MailboxAddress(), buf, bmi.ModeReadIncrement)
			Expect(errors.Is(err, ErrUnderrun)).To(BeTrue())
		})
	})

	Context("fault injection", func() {
		It("fails and counts transfers at the injected address", func() {
			boom := errors.New("boom")
			target.InjectWriteError(target.MailboxAddress(), boom)

			err := target.ReadWrite(target.MailboxAddress(), protocol.BuildDoneCmd(), bmi.ModeWriteIncrement)
			Expect(err).To(MatchError(boom))
			Expect(target.Writes(target.MailboxAddress())).To(Equal(1))
			Expect(target.Commands()).To(BeEmpty())

			target.InjectWriteError(target.MailboxAddress(), nil)
			Expect(target.ReadWrite(target.MailboxAddress(), protocol.BuildDoneCmd(), bmi.ModeWriteIncrement)).To(Succeed())
			Expect(target.TotalWrites()).To(Equal(2))
		})
	})

	It("keeps the scratch register", func() {
		buf := []byte{0x78, 0x56, 0x34, 0x12}
		Expect(target.ReadWrite(protocol.ScratchAddress, buf, bmi.ModeWriteIncrement)).To(Succeed())
		Expect(target.Scratch()).To(Equal(uint32(0x12345678)))
		Expect(readWord(target, protocol.ScratchAddress, bmi.ModeReadIncrement)).To(Equal(uint32(0x12345678)))
	})
})

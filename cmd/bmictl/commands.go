package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newTargetInfoCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "target-info",
		Short: "Negotiate and print the target info record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info, err := a.session.GetTargetInfo(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Format:     %s\n", info.Format)
			fmt.Fprintf(cmd.OutOrStdout(), "Byte count: %d\n", info.ByteCount)
			fmt.Fprintf(cmd.OutOrStdout(), "Version:    0x%08X\n", info.Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Type:       %d\n", info.Type)
			return nil
		},
	}
}

func newExchangeCmd(a *app) *cobra.Command {
	var recv int
	var timeout time.Duration

	cmd := &cobra.Command{
		Use:   "exchange <hex>",
		Short: "Send a raw command and optionally read a fixed-size reply",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			request, err := parseHex(args[0])
			if err != nil {
				return err
			}
			if recv < 0 {
				return fmt.Errorf("--recv must not be negative")
			}

			var response []byte
			if recv > 0 {
				response = make([]byte, recv)
			}
			if err := a.session.Exchange(cmd.Context(), request, response, timeout); err != nil {
				return err
			}

			if response != nil {
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(response))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&recv, "recv", 0, "number of reply bytes to read")
	cmd.Flags().DurationVar(&timeout, "timeout", time.Second, "0 waits for the reply without bound")
	return cmd
}

func newReadMemCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "read-mem <address> <length>",
		Short: "Read target memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parseWord(args[0])
			if err != nil {
				return err
			}
			length, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid length %q", args[1])
			}

			data, err := a.session.ReadMemory(cmd.Context(), address, length)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(data))
			return nil
		},
	}
}

func newWriteMemCmd(a *app) *cobra.Command {
	var readBack bool

	cmd := &cobra.Command{
		Use:   "write-mem <address> <hex>",
		Short: "Write target memory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parseWord(args[0])
			if err != nil {
				return err
			}
			data, err := parseHex(args[1])
			if err != nil {
				return err
			}

			if err := a.session.WriteMemory(cmd.Context(), address, data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d bytes at 0x%08X\n", len(data), address)

			if readBack {
				got, err := a.session.ReadMemory(cmd.Context(), address, len(data))
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(got))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&readBack, "read-back", false, "read the written range back")
	return cmd
}

func newExecuteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "execute <address> [param]",
		Short: "Run target code and print its result",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			address, err := parseWord(args[0])
			if err != nil {
				return err
			}
			var param uint32
			if len(args) == 2 {
				if param, err = parseWord(args[1]); err != nil {
					return err
				}
			}

			result, err := a.session.Execute(cmd.Context(), address, param)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%08X\n", result)
			return nil
		},
	}
}

func newScratchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scratch [value]",
		Short: "Write the scratch register if a value is given, then read it back",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				v, err := parseWord(args[0])
				if err != nil {
					return err
				}
				if err := a.session.WriteScratch(cmd.Context(), v); err != nil {
					return err
				}
			}

			v, err := a.session.ReadScratch(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "0x%08X\n", v)
			return nil
		},
	}
}

// parseWord accepts decimal, 0x hex or 0 octal 32-bit values.
func parseWord(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid 32-bit value %q", s)
	}
	return uint32(v), nil
}

// parseHex decodes a hex string, ignoring spaces, colons and a 0x prefix.
func parseHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.NewReplacer(" ", "", ":", "").Replace(s)
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("hex data cannot be empty")
	}
	return data, nil
}

package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/anirudhraja/protocodec"
	"github.com/anirudhraja/protocodec/rawmsg"
	"github.com/anirudhraja/protocodec/wire"
)

func (a *app) rawCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "raw [file|-]",
		Short: "Print fields without a schema, like protoc --decode_raw",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args, cmd.InOrStdin(), a.cfg.Hex)
			if err != nil {
				return err
			}
			a.logger.Debug().Int("bytes", len(data)).Msg("scanning payload")

			nodes, err := rawmsg.Tree(data, rawmsg.Config{MaxDepth: a.cfg.MaxDepth})
			if err != nil {
				return err
			}
			if a.cfg.Format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), toJSONNodes(nodes))
			}
			printNodes(cmd.OutOrStdout(), nodes, 0)
			return nil
		},
	}
}

func (a *app) decodeCmd() *cobra.Command {
	var (
		protoFiles []string
		message    string
	)

	cmd := &cobra.Command{
		Use:   "decode --proto file.proto --message pkg.Msg [file|-]",
		Short: "Decode a payload against a message type from .proto files",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("message") {
				a.cfg.Message = message
			}
			if a.cfg.Message == "" {
				return fmt.Errorf("no message type: set --message or message in the config")
			}
			if len(protoFiles) == 0 {
				return fmt.Errorf("no schema: set --proto")
			}

			p := protocodec.New(a.cfg.ProtoDirs...)
			p.RawDepth = a.cfg.MaxDepth
			for _, f := range protoFiles {
				load := p.LoadSchemaFromFile
				if info, err := os.Stat(f); err == nil && info.IsDir() {
					load = p.LoadSchema
				}
				if err := load(f); err != nil {
					return fmt.Errorf("load %s: %w", f, err)
				}
			}
			a.logger.Debug().Strs("messages", p.ListMessages()).Msg("schema loaded")

			data, err := readInput(args, cmd.InOrStdin(), a.cfg.Hex)
			if err != nil {
				return err
			}
			values, err := p.Inspect(data, a.cfg.Message)
			if err != nil {
				return err
			}
			if a.cfg.Format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), values)
			}
			printValues(cmd.OutOrStdout(), values, 0)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&protoFiles, "proto", nil, ".proto files (resolved against --proto-path) or directories to load")
	cmd.Flags().StringVar(&message, "message", "", "fully qualified message type")
	return cmd
}

func (a *app) varintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "varint <n>...",
		Short: "Print the varint encoding of integers",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			type encoded struct {
				Value string `json:"value"`
				Hex   string `json:"hex"`
			}
			out := make([]encoded, 0, len(args))
			for _, arg := range args {
				v, err := parseVarintArg(arg)
				if err != nil {
					return err
				}
				out = append(out, encoded{Value: arg, Hex: hex.EncodeToString(wire.EncodeVarint(v))})
			}

			if a.cfg.Format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), out)
			}
			for _, e := range out {
				fmt.Fprintln(cmd.OutOrStdout(), e.Hex)
			}
			return nil
		},
	}
}

// parseVarintArg accepts unsigned values and negative int64 values, which
// are encoded as their 64-bit two's complement like int64 fields.
func parseVarintArg(s string) (uint64, error) {
	if strings.HasPrefix(s, "-") {
		n, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("parse %q: %w", s, err)
		}
		return uint64(n), nil
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %q: %w", s, err)
	}
	return n, nil
}

func (a *app) keyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "key <field> <wiretype>",
		Short: "Print the encoding of a field key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			field, err := strconv.ParseUint(args[0], 0, 61)
			if err != nil {
				return fmt.Errorf("parse field number %q: %w", args[0], err)
			}
			wt, err := parseWireType(args[1])
			if err != nil {
				return err
			}

			encoded := hex.EncodeToString(wire.EncodeKey(field, wt))
			if a.cfg.Format == formatJSON {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"field":     field,
					"wire_type": wt.String(),
					"hex":       encoded,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), encoded)
			return nil
		},
	}
}

// parseWireType accepts a number 0-7 or a name as printed by WireType.String.
func parseWireType(s string) (wire.WireType, error) {
	if n, err := strconv.ParseUint(s, 10, 3); err == nil {
		return wire.WireType(n), nil
	}
	for wt := wire.WireType(0); wt < 8; wt++ {
		if strings.EqualFold(s, wt.String()) {
			return wt, nil
		}
	}
	return 0, fmt.Errorf("unknown wire type %q", s)
}

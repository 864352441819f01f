package commands

import (
	"encoding/hex"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/born-ml/strided/internal/codec"
	"github.com/born-ml/strided/internal/config"
	"github.com/born-ml/strided/internal/random"
	"github.com/born-ml/strided/internal/serialization"
	"github.com/born-ml/strided/internal/tensor"
)

// Run loads the configuration and executes the parsed command, writing its
// output to out.
func Run(args *Arguments, appVersion string, out io.Writer) error {
	cfg, err := config.Load(args.ConfigPath)
	if err != nil {
		return err
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if _, err := cfg.Apply(); err != nil {
		return err
	}
	logrus.Debugf("loaded configuration %q", args.ConfigPath)

	switch {
	case args.Version != nil:
		PrintVersion(out, appVersion)
		return nil
	case args.Inspect != nil:
		return Inspect(out, cfg, args.Inspect)
	case args.Verify != nil:
		return Verify(out, cfg, args.Verify)
	case args.Convert != nil:
		return Convert(out, cfg, args.Convert)
	case args.Generate != nil:
		return Generate(out, cfg, args.Generate)
	}
	return nil
}

// PrintVersion prints the tool and format versions.
func PrintVersion(out io.Writer, appVersion string) {
	fmt.Fprintf(out, "strided %s (archive format v%d)\n", appVersion, serialization.FormatVersion)
}

// Inspect lists every entry of an archive with its layout and the buffer it
// shares.
func Inspect(out io.Writer, cfg *config.Config, args *InspectArguments) error {
	a, err := serialization.OpenFile(args.Path, cfg.ReaderOptions())
	if err != nil {
		return err
	}
	defer a.Release()
	infos := a.Info()

	if args.NoTable {
		for _, info := range infos {
			fmt.Fprintf(out, "%s\t%s\t%v\t%v\t%d\t%d\t%s\n",
				info.Name, info.DType, []int(info.Shape), info.Stride, info.Offset, info.BufferID, aliases(infos, info))
		}
		return nil
	}

	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"Name", "DType", "Shape", "Stride", "Offset", "Buffer", "Aliases"})
	table.SetCaption(true, fmt.Sprintf("%d entries, %d buffers", len(infos), countBuffers(infos)))
	table.SetBorder(false)
	for _, info := range infos {
		table.Append([]string{
			info.Name,
			info.DType.String(),
			formatInts(info.Shape),
			formatInts(info.Stride),
			strconv.Itoa(info.Offset),
			fmt.Sprintf("#%d (%d)", info.BufferID, info.BufferLen),
			aliases(infos, info),
		})
	}
	table.Render()
	return nil
}

// Verify decodes an archive with strict validation and checksum
// verification regardless of the configured level.
func Verify(out io.Writer, cfg *config.Config, args *VerifyArguments) error {
	opts := cfg.ReaderOptions()
	opts.ValidationLevel = serialization.ValidationStrict
	opts.SkipChecksumValidation = false

	r, err := serialization.NewMmapReader(args.Path)
	if err != nil {
		return errors.Wrapf(err, "verify %s", args.Path)
	}
	defer r.Close()

	a, err := r.Archive(opts)
	if err != nil {
		return errors.Wrapf(err, "verify %s", args.Path)
	}
	defer a.Release()

	infos := a.Info()
	sum := r.Checksum()
	fmt.Fprintf(out, "%s: OK, %d entries, %d buffers\n", args.Path, len(infos), countBuffers(infos))
	fmt.Fprintf(out, "payload %d bytes, sha256 %s\n", r.PayloadSize(), hex.EncodeToString(sum[:]))
	return nil
}

// Convert re-encodes an archive. Entries that shared a buffer in the input
// share one buffer in the output.
func Convert(out io.Writer, cfg *config.Config, args *ConvertArguments) error {
	wopts := cfg.WriteOptions()
	if args.Codec != "" {
		kind, err := codec.ParseKind(args.Codec)
		if err != nil {
			return err
		}
		wopts.Codec = kind
	}

	a, err := serialization.OpenFile(args.In, cfg.ReaderOptions())
	if err != nil {
		return err
	}
	defer a.Release()

	if err := serialization.SaveFile(args.Out, a, wopts); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"in":    args.In,
		"out":   args.Out,
		"codec": wopts.Codec,
	}).Info("converted archive")
	fmt.Fprintf(out, "wrote %s (%s, %d entries)\n", args.Out, wopts.Codec, a.Len())
	return nil
}

// Generate writes an archive holding a seeded random view "x". A 2-D x is
// stored together with its transpose "x.T" and main diagonal "x.diag", which
// alias its buffer.
func Generate(out io.Writer, cfg *config.Config, args *GenerateArguments) error {
	dist, err := random.Standard(args.Dist)
	if err != nil {
		return err
	}
	dt, err := tensor.ParseDataType(args.DType)
	if err != nil {
		return err
	}

	a := serialization.NewArchive()
	defer a.Release()
	a.Metadata["distribution"] = strings.ToLower(args.Dist)
	a.Metadata["seed"] = strconv.FormatUint(args.Seed, 10)

	g := random.New(args.Seed)
	switch dt {
	case tensor.Int8:
		err = addRandom[int8](a, args.Shape, g, dist)
	case tensor.Int16:
		err = addRandom[int16](a, args.Shape, g, dist)
	case tensor.Int32:
		err = addRandom[int32](a, args.Shape, g, dist)
	case tensor.Int64:
		err = addRandom[int64](a, args.Shape, g, dist)
	case tensor.Uint8:
		err = addRandom[uint8](a, args.Shape, g, dist)
	case tensor.Float32:
		err = addRandom[float32](a, args.Shape, g, dist)
	case tensor.Float64:
		err = addRandom[float64](a, args.Shape, g, dist)
	case tensor.Complex64:
		err = addRandom[complex64](a, args.Shape, g, dist)
	case tensor.Complex128:
		err = addRandom[complex128](a, args.Shape, g, dist)
	}
	if err != nil {
		return err
	}

	wopts := cfg.WriteOptions()
	if err := serialization.SaveFile(args.Out, a, wopts); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"out":   args.Out,
		"dtype": dt,
		"shape": args.Shape,
		"dist":  args.Dist,
		"seed":  args.Seed,
	}).Info("generated archive")
	fmt.Fprintf(out, "wrote %s (%s, %d entries)\n", args.Out, wopts.Codec, a.Len())
	return nil
}

func addRandom[T tensor.Element](a *serialization.Archive, shape []int, g *random.Generator, dist random.Distribution) error {
	x, err := tensor.New[T](shape...)
	if err != nil {
		return err
	}
	if err := random.Fill(x, g, dist); err != nil {
		return err
	}
	if err := serialization.Add(a, "x", x); err != nil {
		return err
	}
	if x.Dim() != 2 {
		return nil
	}
	xt, err := x.T()
	if err != nil {
		return err
	}
	if err := serialization.Add(a, "x.T", xt); err != nil {
		return err
	}
	diag, err := x.Diag(0)
	if err != nil {
		return err
	}
	return serialization.Add(a, "x.diag", diag)
}

func countBuffers(infos []serialization.EntryInfo) int {
	ids := make(map[int]struct{})
	for _, info := range infos {
		ids[info.BufferID] = struct{}{}
	}
	return len(ids)
}

// aliases names the other entries sharing info's buffer.
func aliases(infos []serialization.EntryInfo, info serialization.EntryInfo) string {
	var names []string
	for _, other := range infos {
		if other.BufferID == info.BufferID && other.Name != info.Name {
			names = append(names, other.Name)
		}
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}

func formatInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = strconv.Itoa(x)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

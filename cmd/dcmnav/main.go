// Command dcmnav decodes DICOM and ACR-NEMA files and prints their element
// tree.
//
//	dcmnav [flags] file...
//
// Files are decoded concurrently and printed in command line order.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"github.com/odincare/dcmnav"
	"github.com/odincare/dcmnav/dicomlog"
	"github.com/odincare/dcmnav/dicomtag"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

var (
	strict        = flag.Bool("strict", false, "Check every value against its VR and multiplicity, fail on the first violation.")
	defaultSyntax = flag.String("default-syntax", "", "Transfer syntax UID of files without a meta group (ACR-NEMA). Implicit VR little endian if empty.")
	permissive    = flag.Bool("permissive", false, "Read implicit VR elements missing from the dictionary as UN instead of failing.")
	dictPath      = flag.String("dict", "", "Tab separated dictionary of extra tags, layered over the standard one.")
	verbosity     = flag.Int("v", 0, "Log verbosity. -1 disables warnings.")
	showFrames    = flag.Bool("frames", false, "Print a pixel data summary.")
	dropPixels    = flag.Bool("drop-pixels", false, "Stop reading at the pixel data.")
	find          = flag.String("find", "", "Only print files matching all of Name=pattern[,Name=pattern...], e.g. PatientName=Zh*.")
	quiet         = flag.Bool("q", false, "Print file names only.")
)

type result struct {
	ds  *dicom.DataSet
	err error
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()
	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	dicomlog.SetLevel(*verbosity)

	options, err := readOptions()
	if err != nil {
		logrus.Fatal(err)
	}
	filters, err := parseFilters(*find)
	if err != nil {
		logrus.Fatal(err)
	}

	paths := flag.Args()
	results, failed := decodeAll(paths, options)

	for i, path := range paths {
		r := results[i]
		if r.err != nil {
			logrus.WithField("file", path).Error(r.err)
			failed = true
			continue
		}
		ok, err := matches(r.ds, filters)
		if err != nil {
			logrus.WithField("file", path).Error(err)
			failed = true
			continue
		}
		if !ok {
			continue
		}
		if *quiet {
			fmt.Println(path)
			continue
		}
		printDataSet(os.Stdout, path, r.ds)
	}
	if failed {
		os.Exit(1)
	}
}

// decodeAll decodes every file concurrently. results are in the order of
// paths; failed reports whether any file could not be decoded.
func decodeAll(paths []string, options dicom.ReadOptions) (results []result, failed bool) {
	results = make([]result, len(paths))
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			ds, err := dicom.ReadDataSetFromFile(path, options)
			results[i] = result{ds, err}
			return err
		})
	}
	// plain Group, no cancellation: a failure does not stop the other files
	return results, g.Wait() != nil
}

func readOptions() (dicom.ReadOptions, error) {
	options := dicom.ReadOptions{
		Strict:                *strict,
		DefaultTransferSyntax: *defaultSyntax,
		DropPixelData:         *dropPixels,
	}
	if *permissive {
		options.FallbackVR = "UN"
	}
	if *dictPath != "" {
		in, err := os.Open(*dictPath)
		if err != nil {
			return options, err
		}
		defer in.Close()
		dict, err := dicomtag.ReadDictionary(in)
		if err != nil {
			return options, fmt.Errorf("%s: %w", *dictPath, err)
		}
		options.Dictionary = dicomtag.Chain{dict, dicomtag.Standard()}
	}
	return options, nil
}

// parseFilters turns "Name=pattern,..." into query elements.
func parseFilters(expr string) ([]*dicom.Element, error) {
	if expr == "" {
		return nil, nil
	}
	var filters []*dicom.Element
	for _, term := range strings.Split(expr, ",") {
		name, pattern, ok := strings.Cut(term, "=")
		if !ok {
			return nil, fmt.Errorf("malformed filter %q, expect Name=pattern", term)
		}
		info, err := dicomtag.FindByName(strings.TrimSpace(name))
		if err != nil {
			return nil, err
		}
		var values []interface{}
		if pattern != "" {
			values = append(values, pattern)
		}
		elem, err := dicom.NewElement(info.Tag, values...)
		if err != nil {
			return nil, fmt.Errorf("filter %q: only text attributes can be matched: %w", term, err)
		}
		filters = append(filters, elem)
	}
	return filters, nil
}

func matches(ds *dicom.DataSet, filters []*dicom.Element) (bool, error) {
	for _, f := range filters {
		ok, _, err := dicom.Query(ds, f)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}

func printDataSet(out io.Writer, path string, ds *dicom.DataSet) {
	fmt.Fprintf(out, "# %s (%s, %s)\n", path, ds.TransferSyntax.Name, ds.TransferSyntax.CharacterRepertoire)
	fmt.Fprint(out, ds.String())
	for _, w := range ds.Warnings {
		fmt.Fprintf(out, "warning: %s\n", w)
	}
	if !*showFrames {
		return
	}
	pd, err := ds.PixelData()
	if err != nil {
		fmt.Fprintf(out, "pixel data: %v\n", err)
		return
	}
	fmt.Fprintf(out, "pixel data: %dx%d, %d bits, %d sample(s), %s, %d frame(s), compressed %v\n",
		pd.Columns, pd.Rows, pd.BitsAllocated, pd.SamplesPerPixel, pd.PhotometricInterpretation,
		len(pd.Frames), pd.Compressed)
	for i, frame := range pd.Frames {
		fmt.Fprintf(out, "  frame %d: %d bytes\n", i, len(frame))
	}
	if pd.DecompressionErr != nil {
		fmt.Fprintf(out, "  %v\n", pd.DecompressionErr)
	}
}

// Copyright 2018 GRAIL, Inc.  All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

// Command kmersearch-admin exposes the administrative calls of §6
// ("analyze a (relation, column, k); load/free the high-freq cache; report
// detected SIMD tier") as a standalone CLI, grounded on cmd/bio-fusion's
// flag-registration style and standing in for the catalog-driven admin
// functions a real host would expose as SQL-callable procedures.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/base/traverse"
	"github.com/grailbio/base/vcontext"
	"github.com/kmersearch/engine/encoding/fasta"
	"github.com/kmersearch/engine/config"
	"github.com/kmersearch/engine/freq"
	"github.com/kmersearch/engine/host"
	"github.com/kmersearch/engine/kmer"
	"github.com/kmersearch/engine/kmersimd"
	"github.com/kmersearch/engine/store"
)

// traverseWorkers implements host.ParallelWorkers on top of
// grailbio/base/traverse, grounded on pileup/snp/pileup.go's
// traverse.Each(parallelism, fn) block-range fan-out.
type traverseWorkers struct{}

func (traverseWorkers) Each(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	return traverse.Each(n, func(i int) error { return fn(ctx, i) })
}

func usage() {
	fmt.Fprintln(os.Stderr, `kmersearch-admin: administrative calls for the kmersearch engine.

Usage:
  kmersearch-admin analyze -fasta=path -relation=name -column=name -store=dir [-dna4] [flags]
  kmersearch-admin load-highfreq -relation=name -column=name -store=dir
  kmersearch-admin free-highfreq -relation=name -column=name -store=dir
  kmersearch-admin report-tier
`)
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage

	opts := config.DefaultOptions
	flag.IntVar(&opts.KmerSize, "kmer-size", opts.KmerSize, "k for all operations")
	flag.IntVar(&opts.OccurBitlen, "occur-bitlen", opts.OccurBitlen, "occurrence-counter width; 2k+b <= 64")
	flag.IntVar(&opts.MinScore, "min-score", opts.MinScore, "absolute threshold for =%")
	flag.Float64Var(&opts.MinSharedRate, "min-shared-rate", opts.MinSharedRate, "relative threshold for =%")
	flag.Float64Var(&opts.MaxAppearanceRate, "max-appearance-rate", opts.MaxAppearanceRate, "high-freq row-fraction cutoff")
	flag.IntVar(&opts.MaxAppearanceNrow, "max-appearance-nrow", opts.MaxAppearanceNrow, "high-freq row-count cutoff (0 = unlimited)")
	flag.BoolVar(&opts.PrecludeHighfreqKmer, "preclude-highfreq-kmer", opts.PrecludeHighfreqKmer, "filter high-freq keys at index-build time")
	flag.IntVar(&opts.ParallelWorkerCap, "parallel-worker-cap", opts.ParallelWorkerCap, "max analyzer workers")

	fastaPath := flag.String("fasta", "", "FASTA file to analyze (analyze subcommand)")
	relationID := flag.String("relation", "", "relation identifier")
	column := flag.String("column", "", "sequence column name")
	storeDir := flag.String("store", "", "durable store root (local path or s3://bucket/prefix)")
	dna4 := flag.Bool("dna4", false, "treat sequences as DNA4 rather than DNA2")

	flag.Parse()
	if err := opts.Validate(); err != nil {
		log.Fatalf("kmersearch-admin: invalid configuration: %v", err)
	}

	cleanup := grail.Init()
	defer cleanup()
	ctx := vcontext.Background()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	switch flag.Arg(0) {
	case "analyze":
		runAnalyze(ctx, opts, *fastaPath, *relationID, *column, *storeDir, *dna4)
	case "load-highfreq":
		runLoadHighFreq(ctx, opts, *relationID, *column, *storeDir)
	case "free-highfreq":
		runFreeHighFreq(ctx, *relationID, *column, opts.KmerSize, *storeDir)
	case "report-tier":
		runReportTier(opts)
	default:
		log.Fatalf("kmersearch-admin: unknown subcommand %q", flag.Arg(0))
	}
}

func openStore(storeDir string) host.KVStore {
	if len(storeDir) >= 5 && storeDir[:5] == "s3://" {
		return store.NewS3Store(storeDir[5:])
	}
	return store.NewFileStore(storeDir)
}

func runAnalyze(ctx context.Context, opts config.Options, fastaPath, relationID, column, storeDir string, isDNA4 bool) {
	if fastaPath == "" || relationID == "" || column == "" || storeDir == "" {
		log.Fatalf("kmersearch-admin analyze: -fasta, -relation, -column and -store are all required")
	}
	r, err := file.Open(ctx, fastaPath)
	if err != nil {
		log.Fatalf("kmersearch-admin analyze: open %s: %v", fastaPath, err)
	}
	defer r.Close(ctx)

	fa, err := fasta.New(r.Reader(ctx))
	if err != nil {
		log.Fatalf("kmersearch-admin analyze: parse %s: %v", fastaPath, err)
	}

	bitsPer := 2
	if isDNA4 {
		bitsPer = 4
	}
	source := newFastaRelationSource(fa, bitsPer)

	extractor, err := kmer.NewExtractor(opts.KmerSize, opts.OccurBitlen)
	if err != nil {
		log.Fatalf("kmersearch-admin analyze: %v", err)
	}
	analyzer := &freq.Analyzer{
		Workers:   traverseWorkers{},
		Extractor: extractor,
		Opts:      opts,
		Lock:      store.NewProcessLock(),
	}
	record, err := analyzer.Analyze(ctx, source, relationID, column)
	if err != nil {
		log.Fatalf("kmersearch-admin analyze: %v", err)
	}

	data, err := record.Marshal()
	if err != nil {
		log.Fatalf("kmersearch-admin analyze: marshal record: %v", err)
	}
	kv := openStore(storeDir)
	key := freq.RecordKey(relationID, column, opts.KmerSize)
	if err := kv.Put(ctx, key, data); err != nil {
		log.Fatalf("kmersearch-admin analyze: persist record: %v", err)
	}
	log.Printf("kmersearch-admin: analyzed %s.%s (k=%d): %d high-frequency k-mers out of %d rows, persisted at %s",
		relationID, column, opts.KmerSize, len(record.Keys), record.TotalRows, key)
}

func runLoadHighFreq(ctx context.Context, opts config.Options, relationID, column, storeDir string) {
	if relationID == "" || column == "" || storeDir == "" {
		log.Fatalf("kmersearch-admin load-highfreq: -relation, -column and -store are all required")
	}
	kv := openStore(storeDir)
	key := freq.RecordKey(relationID, column, opts.KmerSize)
	data, ok, err := kv.Get(ctx, key)
	if err != nil {
		log.Fatalf("kmersearch-admin load-highfreq: %v", err)
	}
	if !ok {
		log.Fatalf("kmersearch-admin load-highfreq: no frequency record at %s; run 'analyze' first", key)
	}
	record, err := freq.UnmarshalRecord(data)
	if err != nil {
		log.Fatalf("kmersearch-admin load-highfreq: %v", err)
	}
	log.Printf("kmersearch-admin: %s.%s (k=%d) has %d high-frequency k-mers, analyzed at %s over %d rows",
		relationID, column, opts.KmerSize, len(record.Keys), record.AnalysisTimestamp, record.TotalRows)
}

func runFreeHighFreq(ctx context.Context, relationID, column string, k int, storeDir string) {
	if relationID == "" || column == "" || storeDir == "" {
		log.Fatalf("kmersearch-admin free-highfreq: -relation, -column and -store are all required")
	}
	kv := openStore(storeDir)
	key := freq.RecordKey(relationID, column, k)
	if err := kv.Delete(ctx, key); err != nil {
		log.Fatalf("kmersearch-admin free-highfreq: %v", err)
	}
	log.Printf("kmersearch-admin: removed frequency record %s", key)
}

func runReportTier(opts config.Options) {
	fmt.Printf("detected SIMD tier: %s\n", kmersimd.DetectedTier(nil))
	fmt.Printf("effective SIMD tier (after force-simd-capability): %s\n", opts.EffectiveSIMDTier())
}

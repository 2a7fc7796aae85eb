package benchmark

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/conllx"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lemmatizer"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/lexicon"
	"github.com/Adithya-Monish-Kumar-K/tdzlemma/internal/segment"
)

const prefixFile = "../../data/tdz-separable-prefixes.txt"

var verbForms = []struct {
	form, lemma, tag string
}{
	{"abhing", "hängen", "VVFIN"},
	{"wiedergutgemacht", "machen", "VVPP"},
	{"hinzubewegen", "bewegen", "VVIZU"},
	{"zurückzuführen", "führen", "VVIZU"},
	{"zusammengearbeitet", "arbeiten", "VVPP"},
	{"machte", "machen", "VVFIN"},
}

const sentence = "1\tDie\tder\tART\tART\t_\t2\tDET\t_\t_\n" +
	"2\tÄnderungen\tänderung\tNN\tNN\t_\t3\tSUBJ\t_\t_\n" +
	"3\tzeichnen\tzeichnen\tVVFIN\tVVFIN\t_\t0\tROOT\t_\t_\n" +
	"4\tsich\tsich\tPRF\tPRF\t_\t3\tOBJA\t_\t_\n" +
	"5\tab\tab\tPTKVZ\tPTKVZ\t_\t3\tAVZ\t_\t_\n" +
	"6\t.\t_\t$.\t$.\t_\t3\t-PUNCT-\t_\t_\n\n" +
	"1\tDas\tder\tART\tART\t_\t2\tDET\t_\t_\n" +
	"2\tHaus\thaus\tNN\tNN\t_\t3\tSUBJ\t_\t_\n" +
	"3\twurde\twerden\tVAFIN\tVAFIN\t_\t0\tROOT\t_\t_\n" +
	"4\twiedergutgemacht\tmachen\tVVPP\tVVPP\t_\t3\tAUX\t_\t_\n\n"

func loadLexicon(b *testing.B) *lexicon.Lexicon {
	b.Helper()
	lex, err := lexicon.LoadFiles(prefixFile, "")
	if err != nil {
		b.Fatal(err)
	}
	return lex
}

func BenchmarkLongestPrefixes(b *testing.B) {
	lex := loadLexicon(b)
	b.ReportAllocs()
	for b.Loop() {
		for _, v := range verbForms {
			_ = segment.LongestPrefixes(lex.Prefixes, v.form, v.lemma, v.tag)
		}
	}
}

func BenchmarkPrefixSetContains(b *testing.B) {
	lex := loadLexicon(b)
	words := []string{"ab", "wieder", "zurück", "zusammen", "machen", "haus"}
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			for _, w := range words {
				_ = lex.Prefixes.Contains(w)
			}
		}
	})
}

func BenchmarkProcessSentence(b *testing.B) {
	lex := loadLexicon(b)
	for _, mode := range []lemmatizer.Mode{lemmatizer.Lemmatize, lemmatizer.Delemmatize} {
		b.Run(string(mode), func(b *testing.B) {
			l, err := lemmatizer.New(lemmatizer.Config{Mode: mode, MultiplePrefixes: true}, lex, nil)
			if err != nil {
				b.Fatal(err)
			}
			s, err := conllx.NewReader(strings.NewReader(sentence)).Read()
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			for b.Loop() {
				if err := l.ProcessSentence(s.Clone()); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkProcessCorpus(b *testing.B) {
	lex := loadLexicon(b)
	corpus := strings.Repeat(sentence, 500)
	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			l, err := lemmatizer.New(lemmatizer.Config{
				Mode:             lemmatizer.Lemmatize,
				MultiplePrefixes: true,
				Workers:          workers,
				BatchSize:        256,
			}, lex, nil)
			if err != nil {
				b.Fatal(err)
			}
			b.ReportAllocs()
			b.SetBytes(int64(len(corpus)))
			for b.Loop() {
				var out bytes.Buffer
				w := conllx.NewWriter(&out)
				if _, err := l.ProcessCorpus(context.Background(), conllx.NewReader(strings.NewReader(corpus)), w); err != nil {
					b.Fatal(err)
				}
				if err := w.Flush(); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

package benchmark

import (
	"fmt"
	"strings"
	"testing"

	"vsmsearch/internal/normalize"
)

var sampleTexts = map[string]string{
	"short": "The salt concentration in sweat of children with cystic fibrosis",
	"accented": `A exploração da função pancreática em crianças revelou deficiência
        na secreção de enzimas; a concentração de sal no suor permanece elevada
        mesmo após a correção da dieta.`,
	"medium": `The sweat electrolyte abnormality in cystic fibrosis of the pancreas
        persists throughout life and is independent of the degree of pancreatic
        insufficiency. Elevated sodium and chloride concentrations in sweat remain
        the most reliable diagnostic criterion. Pulmonary involvement varies widely
        between patients and determines the long-term prognosis of the disease.`,
	"long": strings.Repeat(`Studies of pancreatic enzyme secretion in children with
        cystic fibrosis demonstrate a marked reduction of trypsin, lipase, and
        amylase output after pancreozymin stimulation. The mucous glands of the
        bronchial tree show hypertrophy and hypersecretion, and recurrent
        respiratory infection with staphylococcus aureus and pseudomonas
        aeruginosa dominates the clinical course. `, 20),
}

func BenchmarkNormalize(b *testing.B) {
	norm := normalize.New(nil, false)
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := norm.Normalize(text, true)
				_ = tokens
			}
		})
	}
}

func BenchmarkNormalizeParallel(b *testing.B) {
	norm := normalize.New(nil, false)
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			tokens := norm.Normalize(text, true)
			_ = tokens
		}
	})
}

func BenchmarkNormalizeStemmer(b *testing.B) {
	norm := normalize.New(nil, true)
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		tokens := norm.Normalize(text, true)
		_ = tokens
	}
}

func BenchmarkFold(b *testing.B) {
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				folded := normalize.Fold(text)
				_ = folded
			}
		})
	}
}

func BenchmarkNormalizeVaryingSize(b *testing.B) {
	sizes := []int{100, 500, 1000, 5000, 20000}
	baseWord := "pancreatic enzyme secretion sweat chloride "
	for _, size := range sizes {
		text := strings.Repeat(baseWord, size/len(baseWord)+1)[:size]
		b.Run(fmt.Sprintf("bytes_%d", size), func(b *testing.B) {
			norm := normalize.New(nil, false)
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := norm.Normalize(text, true)
				_ = tokens
			}
		})
	}
}

package discovery

import (
	"math"
	"sort"

	"github.com/MK-vet/bact-mdr-profiler/adapters/stats/fdr"
	"github.com/MK-vet/bact-mdr-profiler/adapters/stats/independence"
	"github.com/MK-vet/bact-mdr-profiler/domain/amr"
	"github.com/MK-vet/bact-mdr-profiler/domain/causal"
	"github.com/MK-vet/bact-mdr-profiler/domain/core"
	"github.com/MK-vet/bact-mdr-profiler/internal/errors"
)

// Edge type labels for the typed co-resistance network.
const (
	EdgePhenoPheno = "pheno-pheno"
	EdgeGenoGeno   = "gene-gene"
	EdgePhenoGeno  = "pheno-gene"
)

// AssociationEdge is one typed pairwise association with FDR-corrected
// significance. Unlike the CPDAG, this network conditions on nothing:
// it is the marginal co-resistance structure.
type AssociationEdge struct {
	NodeA       core.NodeKey      `json:"node_a"`
	NodeB       core.NodeKey      `json:"node_b"`
	Type        string            `json:"type"`
	Phi         float64           `json:"phi"`
	PValue      float64           `json:"p_value"`
	AdjustedP   float64           `json:"adjusted_p"`
	Significant bool              `json:"significant"`
	SampleSize  int               `json:"sample_size"`
	Method      causal.TestMethod `json:"method"`
}

// AssociationNetwork builds the typed phenotype/genotype co-resistance
// network: every within-phenotype, within-genotype, and cross pair is
// tested marginally, then one BH pass over all conducted tests decides
// significance. geno may be nil for a phenotype-only network. Both
// matrices must cover the same isolate rows.
func AssociationNetwork(pheno, geno *amr.Matrix, alpha float64, minN int) ([]AssociationEdge, error) {
	if alpha <= 0 || alpha >= 1 {
		return nil, core.ErrAlphaOutOfRange
	}
	if err := pheno.Validate(); err != nil {
		return nil, errors.Wrap(err, "phenotype matrix rejected")
	}
	if geno != nil {
		if err := geno.Validate(); err != nil {
			return nil, errors.Wrap(err, "genotype matrix rejected")
		}
		if geno.NumSamples() != pheno.NumSamples() {
			return nil, core.NewDegenerateInputError("phenotype and genotype matrices cover different isolate sets")
		}
	}

	var edges []AssociationEdge
	testPair := func(a, b core.NodeKey, x, y []amr.Cell, kind string) {
		res := independence.TestPair(x, y, minN)
		if res.Inconclusive {
			return
		}
		edges = append(edges, AssociationEdge{
			NodeA:      a,
			NodeB:      b,
			Type:       kind,
			Phi:        res.Phi,
			PValue:     res.PValue,
			SampleSize: res.SampleSize,
			Method:     res.Method,
		})
	}

	phenoNodes := sortedNodes(pheno)
	for i := 0; i < len(phenoNodes); i++ {
		for j := i + 1; j < len(phenoNodes); j++ {
			testPair(phenoNodes[i], phenoNodes[j],
				column(pheno, phenoNodes[i]), column(pheno, phenoNodes[j]), EdgePhenoPheno)
		}
	}
	if geno != nil {
		genoNodes := sortedNodes(geno)
		for i := 0; i < len(genoNodes); i++ {
			for j := i + 1; j < len(genoNodes); j++ {
				testPair(genoNodes[i], genoNodes[j],
					column(geno, genoNodes[i]), column(geno, genoNodes[j]), EdgeGenoGeno)
			}
		}
		for _, p := range phenoNodes {
			for _, g := range genoNodes {
				testPair(p, g, column(pheno, p), column(geno, g), EdgePhenoGeno)
			}
		}
	}

	// Reuse the global corrector through throwaway records so the
	// association family gets the same BH step-up as the engine.
	records := make([]*causal.TestRecord, len(edges))
	for i := range edges {
		records[i] = &causal.TestRecord{PValue: edges[i].PValue, AdjustedP: math.NaN()}
	}
	fdr.Apply(records, alpha)
	for i := range edges {
		edges[i].AdjustedP = records[i].AdjustedP
		edges[i].Significant = records[i].Significant
	}
	return edges, nil
}

func sortedNodes(m *amr.Matrix) []core.NodeKey {
	nodes := m.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })
	return nodes
}

func column(m *amr.Matrix, key core.NodeKey) []amr.Cell {
	col, _ := m.NodeIndex(key)
	return m.Column(col)
}

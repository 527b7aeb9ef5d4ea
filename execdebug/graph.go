package execdebug

import (
	"encoding/hex"
	"fmt"

	"github.com/awalterschulze/gographviz"

	"github.com/casper-network/casper-execution-engine-go/engine/types"
)

// EffectsGraph renders a WasmV1Result's Transfers and Effects as a directed
// Graphviz graph: one node per distinct key/address touched, an edge per
// transfer (labeled with the amount moved), and an edge from each touched
// key to a node naming the kind of transform recorded against it. It plays
// the call-stack/effect-graph visualization role the debug CLI's `graph`
// command exists for.
func EffectsGraph(result types.WasmV1Result) (*gographviz.Graph, error) {
	g := gographviz.NewGraph()
	if err := g.SetName("execution"); err != nil {
		return nil, err
	}
	if err := g.SetDir(true); err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	ensureNode := func(name string, attrs map[string]string) error {
		if seen[name] {
			return nil
		}
		seen[name] = true
		return g.AddNode("execution", name, attrs)
	}

	for _, transfer := range result.Transfers {
		from := addrNode(transfer.From)
		to := addrNode(transfer.To)
		if err := ensureNode(from, nil); err != nil {
			return nil, err
		}
		if err := ensureNode(to, nil); err != nil {
			return nil, err
		}
		label := fmt.Sprintf(`"%d"`, transfer.Amount)
		if err := g.AddEdge(from, to, true, map[string]string{"label": label}); err != nil {
			return nil, err
		}
	}

	for i, entry := range result.Effects.Entries() {
		keyNode := keyNode(entry.Key)
		transformNode := fmt.Sprintf("transform_%d_%s", i, transformLabel(entry.Transform.Tag))
		if err := ensureNode(keyNode, nil); err != nil {
			return nil, err
		}
		if err := ensureNode(transformNode, map[string]string{"label": `"` + transformLabel(entry.Transform.Tag) + `"`, "shape": "box"}); err != nil {
			return nil, err
		}
		if err := g.AddEdge(keyNode, transformNode, true, nil); err != nil {
			return nil, err
		}
	}

	return g, nil
}

func addrNode(addr [32]byte) string {
	return "addr_" + hex.EncodeToString(addr[:])
}

func keyNode(key types.Key) string {
	return fmt.Sprintf("key_%s_%s", key.Tag, hex.EncodeToString(key.Addr[:]))
}

func transformLabel(tag types.TransformTag) string {
	switch tag {
	case types.TransformWrite:
		return "write"
	case types.TransformAddInt:
		return "add-int"
	case types.TransformAddURef:
		return "add-uref"
	case types.TransformPrune:
		return "prune"
	default:
		return "identity"
	}
}

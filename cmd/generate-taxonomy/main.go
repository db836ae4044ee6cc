package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/pstuifzand/myorganisms/internal/storage"
	"github.com/pstuifzand/myorganisms/internal/taxonomy"
)

func main() {
	numNodes := flag.Int("nodes", 1000, "Number of nodes to generate")
	output := flag.String("output", "large_taxonomy.json", "Output file path")
	depth := flag.Int("depth", 4, "Maximum nesting depth")
	project := flag.String("project", "TestDB", "Project id of the generated document")
	refEvery := flag.Int("reference-every", 7, "Mark every Nth organism as a reference strain (0 for none)")
	flag.Parse()

	if *numNodes < 2 {
		fmt.Fprintf(os.Stderr, "nodes must be at least 2\n")
		os.Exit(1)
	}

	remaining := *numNodes - 1
	root := taxonomy.NewNode("root", "All organisms")
	for remaining > 0 {
		if node := generateNodeRecursive(&remaining, 1, *depth); node != nil {
			root.Children = append(root.Children, node)
		}
	}

	doc := &taxonomy.Document{
		ProjectID: *project,
		Tree:      root,
	}
	if *refEvery > 0 {
		for i, id := range taxonomy.Leaves(root) {
			if i%*refEvery == 0 {
				doc.ReferenceStrains = append(doc.ReferenceStrains, id)
			}
		}
	}

	if err := storage.NewTaxonomyStore(*output, "").Save(doc); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write taxonomy: %v\n", err)
		os.Exit(1)
	}

	info, err := os.Stat(*output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to stat output: %v\n", err)
		os.Exit(1)
	}

	count := 0
	taxonomy.Walk(root, func(*taxonomy.Node, int) bool {
		count++
		return true
	})
	fmt.Printf("Generated taxonomy with %d nodes, %d organisms\n", count, taxonomy.LeafCount(root))
	fmt.Printf("Saved to: %s\n", *output)
	fmt.Printf("File size: %.2f MB\n", float64(info.Size())/(1024*1024))
}

func generateNodeRecursive(remaining *int, currentDepth int, maxDepth int) *taxonomy.Node {
	if *remaining <= 0 {
		return nil
	}

	index := *remaining
	*remaining--
	if currentDepth >= maxDepth || *remaining == 0 {
		return taxonomy.NewNode(fmt.Sprintf("org%d", index), organismName(index))
	}

	node := taxonomy.NewNode(fmt.Sprintf("grp%d", index), groupName(currentDepth, index))
	numChildren := getChildCount(*remaining, maxDepth-currentDepth)
	for i := 0; i < numChildren && *remaining > 0; i++ {
		if child := generateNodeRecursive(remaining, currentDepth+1, maxDepth); child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node
}

func getChildCount(remaining int, depthLeft int) int {
	if depthLeft == 1 {
		// Species level: many strains each
		if remaining > 10 {
			return 5
		}
		return max(remaining/2, 1)
	}
	if remaining > 50 {
		return 3
	}
	return 2
}

func groupName(depth, index int) string {
	ranks := []string{"Phylum", "Class", "Order", "Family", "Genus", "Species"}
	return fmt.Sprintf("%s %d", ranks[min(depth-1, len(ranks)-1)], index)
}

func organismName(index int) string {
	epithets := []string{
		"falciparum", "vivax", "knowlesi", "berghei", "yoelii",
		"chabaudi", "gondii", "parvum", "brucei", "cruzi",
		"major", "donovani", "infantum", "lamblia",
	}
	return fmt.Sprintf("%s strain %d", epithets[index%len(epithets)], index)
}

package bvh

import (
	"fmt"
	"io"
	"strings"
)

// Tree2Dot outputs the internal structure of a tree in Graphviz DOT format
// (for debugging purposes). label may be nil; it is used to caption leaves.
func Tree2Dot[I Item](tree *Tree[I], w io.Writer, label func(I) string) {
	io.WriteString(w, "strict digraph {\n")
	io.WriteString(w, "\tnode [fontname=Arial,fontsize=12];\n")
	nodelist, edgelist := "", ""
	err := tree.each(func(id NodeID, n *node[I], depth int) error {
		styles := nodeDotStyles(n.isLeaf(), depth)
		if n.isLeaf() {
			caption := fmt.Sprintf("%v", n.item)
			if label != nil {
				caption = label(n.item)
			}
			nodelist += fmt.Sprintf("\"%d\" [label=\"%s\\n%s\" %s];\n", id, dotEscaper.Replace(caption), n.hull, styles)
			return nil
		}
		edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", id, n.left)
		edgelist += fmt.Sprintf("\"%d\" -> \"%d\";\n", id, n.right)
		nodelist += fmt.Sprintf("\"%d\" [label=\"%d\" %s];\n", id, id, styles)
		return nil
	})
	if err != nil {
		T().Errorf("bvh DOT: %s", err.Error())
	}
	io.WriteString(w, nodelist)
	io.WriteString(w, edgelist)
	io.WriteString(w, "}\n")
}

func nodeDotStyles(isleaf bool, depth int) string {
	s := ",style=filled"
	if isleaf {
		s += ",shape=box"
	} else {
		s += ",color=black,shape=circle"
	}
	s += fmt.Sprintf(",fillcolor=\"%s\"", hexcolors[min(depth, len(hexcolors)-1)])
	return s
}

// dotEscaper escapes captions for use inside quoted DOT strings.
var dotEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`)

var hexcolors = [...]string{"white", "#CCDDFF", "#AACCFF", "#88BBFF", "#66AAFF",
	"#4499FF", "#2288FF", "#0077FF", "#0066FF"}

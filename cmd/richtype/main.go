// Command richtype replays a script of keystrokes against a structured
// text and prints the paragraphs that result.
//
// The document is read from the file named by the first argument, or
// from standard input, one paragraph per line. Each line of the script
// is a command:
//
//	type TEXT       type TEXT at the selection (\n, \b, \t and \x7f are understood)
//	key NAME [MODS] press left, right, up, down, home, end, tab, pgup or pgdn
//	                with any of shift, ctrl and alt
//	at PARA ICH     put an insertion point at ICH in paragraph PARA
//	select P1 I1 P2 I2
//	copy            put the selected text on the clipboard
//	paste           replace the selection with the clipboard
//	undo
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/rjkroege/richedit/boxes"
	"github.com/rjkroege/richedit/charprops"
	"github.com/rjkroege/richedit/rich"
	"github.com/rjkroege/richedit/rootsite"
	"github.com/rjkroege/richedit/sda"
	"github.com/rjkroege/richedit/selection"
	"github.com/sanity-io/litter"
)

var (
	debug     = flag.Bool("d", false, "set for verbose debugging")
	width     = flag.Int("width", 600, "layout width in pixels")
	ws        = flag.Int("ws", 1, "writing system of the document")
	rtl       = flag.Bool("rtl", false, "lay paragraphs out right to left")
	autoDir   = flag.Bool("autodir", false, "take each paragraph's direction from its first strong character")
	copySel   = flag.Bool("copy", false, "put the final selection on the clipboard")
	script    = flag.String("script", "", "file of commands to replay")
	charsFile = flag.String("chars", "", "YAML file of writing-system profiles")
	dump      = flag.Bool("dump", false, "dump the final selection")
	physical  = flag.Bool("physical", false, "move left and right arrows by screen position")
)

const (
	fragText = iota
	fragPara
)

// paraVC shows a structured text as one editable paragraph per item.
type paraVC struct {
	rtl  bool
	auto bool
}

func (vc paraVC) Display(env *boxes.Env, hvo sda.Hvo, frag int) error {
	switch frag {
	case fragText:
		env.SetEditable(true)
		env.AddObjVecItems(sda.TagParagraphs, vc, fragPara)
	case fragPara:
		da := env.DataAccess()
		rtl := vc.rtl
		if vc.auto {
			if r, ok := charprops.Direction(da.StringProp(hvo, sda.TagContents).Text()); ok {
				rtl = r
			}
		}
		env.OpenParagraph(rich.ParaProps{
			NamedStyle:  da.UnicodeProp(hvo, sda.TagStyleRules),
			RightToLeft: rtl,
		})
		env.AddStringProp(sda.TagContents)
		env.CloseParagraph()
	}
	return nil
}

func main() {
	flag.Parse()
	if !*debug {
		log.SetOutput(io.Discard)
	}

	in := os.Stdin
	if flag.NArg() > 0 {
		f, err := os.Open(flag.Arg(0))
		if err != nil {
			log.Fatalf("can't open document %q: %v", flag.Arg(0), err)
		}
		defer f.Close()
		in = f
	}
	props := rich.Props{Ws: *ws}
	c, text, err := load(in, props)
	if err != nil {
		log.Fatalf("reading document: %v", err)
	}

	opts := []selection.Option{selection.WithLogicalArrows(!*physical)}
	vc := paraVC{rtl: *rtl, auto: *autoDir}
	if *charsFile != "" {
		f, err := os.Open(*charsFile)
		if err != nil {
			log.Fatalf("can't open %q: %v", *charsFile, err)
		}
		reg, err := charprops.LoadRegistry(f)
		f.Close()
		if err != nil {
			log.Fatalf("%s: %v", *charsFile, err)
		}
		opts = append(opts, selection.WithCharProps(reg))
		if p, ok := reg.Profile(*ws); ok && p.RightToLeft {
			vc.rtl = true
		}
	}

	site := &rootsite.Funcs{
		Changed: func(_ rootsite.Selection, kind rootsite.ChangeKind) {
			log.Printf("selection changed: %v", kind)
		},
	}
	root := boxes.NewRoot(c, boxes.WithWidth(*width), boxes.WithSite(site))
	if err := root.SetRootObject(text, vc, fragText); err != nil {
		log.Fatalf("SetRootObject: %v", err)
	}
	selection.Register(root, opts...)

	ed := &editor{c: c, root: root, props: props, opts: opts}
	ed.home()

	if *script != "" {
		f, err := os.Open(*script)
		if err != nil {
			log.Fatalf("can't open script %q: %v", *script, err)
		}
		err = ed.run(f)
		f.Close()
		if err != nil {
			log.Fatalf("%s: %v", *script, err)
		}
	}
	if sel := ed.sel(); sel != nil {
		if _, err := sel.Commit(); err != nil {
			log.Printf("commit: %v", err)
		}
	}

	if *copySel {
		if sel := ed.sel(); sel != nil {
			str, err := sel.GetSelectionString("")
			if err != nil {
				log.Fatalf("GetSelectionString: %v", err)
			}
			if err := clipboard.WriteAll(str.Text()); err != nil {
				log.Fatalf("can't copy: %v", err)
			}
		}
	}

	for i, n := 0, c.VecSize(text, sda.TagParagraphs); i < n; i++ {
		h, _ := c.VecItem(text, sda.TagParagraphs, i)
		fmt.Println(c.StringProp(h, sda.TagContents).Text())
	}
	if *dump {
		if ts, ok := ed.sel().(*selection.TextSelection); ok {
			info, err := ts.AllTextSelInfo()
			if err != nil {
				log.Fatalf("AllTextSelInfo: %v", err)
			}
			fmt.Fprintln(os.Stderr, litter.Sdump(info))
		}
	}
}

// load makes a structured text with one paragraph per line of rd.
func load(rd io.Reader, props rich.Props) (*sda.Cache, sda.Hvo, error) {
	c := sda.NewCache()
	text := c.NewObject(sda.ClassStText)
	sc := bufio.NewScanner(rd)
	for i := 0; sc.Scan(); i++ {
		h, err := c.MakeNewObject(sda.ClassStTxtPara, text, sda.TagParagraphs, i)
		if err != nil {
			return nil, 0, err
		}
		str := rich.Empty(props)
		if line := sc.Text(); line != "" {
			str = rich.Plain(rich.NormalizeText(line), props)
		}
		if err := c.SetString(h, sda.TagContents, str); err != nil {
			return nil, 0, err
		}
		if err := c.SetUnicode(h, sda.TagStyleRules, "Normal"); err != nil {
			return nil, 0, err
		}
	}
	if err := sc.Err(); err != nil {
		return nil, 0, err
	}
	if c.VecSize(text, sda.TagParagraphs) == 0 {
		h, err := c.MakeNewObject(sda.ClassStTxtPara, text, sda.TagParagraphs, 0)
		if err != nil {
			return nil, 0, err
		}
		if err := c.SetString(h, sda.TagContents, rich.Empty(props)); err != nil {
			return nil, 0, err
		}
	}
	return c, text, nil
}

type editor struct {
	c     *sda.Cache
	root  *boxes.Root
	props rich.Props
	opts  []selection.Option
}

var gr = rootsite.ScreenGraphics{Dpi: 96}

func (ed *editor) sel() selection.Selection {
	s, _ := ed.root.Selection().(selection.Selection)
	return s
}

// home puts an insertion point at the start of the document.
func (ed *editor) home() {
	if err := ed.place(0, 0); err != nil {
		log.Printf("no insertion point: %v", err)
	}
}

func (ed *editor) place(para, ich int) error {
	ps := ed.root.Paragraphs()
	if para < 0 || para >= len(ps) {
		return fmt.Errorf("no paragraph %d", para)
	}
	s, err := selection.NewInsertionPoint(ed.root, ps[para], ich, false, ed.opts...)
	if err != nil {
		return err
	}
	return s.Install()
}

func (ed *editor) selectRange(pa, ia, pe, ie int) error {
	ps := ed.root.Paragraphs()
	if pa < 0 || pa >= len(ps) || pe < 0 || pe >= len(ps) {
		return fmt.Errorf("no paragraphs %d and %d", pa, pe)
	}
	var end *boxes.Para
	if pe != pa {
		end = ps[pe]
	}
	s, err := selection.NewTextSelection(ed.root, ps[pa], ia, ie, false, end, ed.opts...)
	if err != nil {
		return err
	}
	return s.Install()
}

var keys = map[string]selection.Key{
	"left":  selection.KeyLeft,
	"right": selection.KeyRight,
	"up":    selection.KeyUp,
	"down":  selection.KeyDown,
	"home":  selection.KeyHome,
	"end":   selection.KeyEnd,
	"tab":   selection.KeyTab,
	"pgup":  selection.KeyPageUp,
	"pgdn":  selection.KeyPageDown,
}

var mods = map[string]selection.ShiftStatus{
	"shift": selection.Shift,
	"ctrl":  selection.Control,
	"alt":   selection.Alt,
}

func (ed *editor) run(rd io.Reader) error {
	sc := bufio.NewScanner(rd)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if err := ed.do(line); err != nil {
			return fmt.Errorf("line %d: %q: %w", n, line, err)
		}
	}
	return sc.Err()
}

func (ed *editor) do(line string) error {
	cmd, arg, _ := strings.Cut(line, " ")
	if ed.sel() == nil && cmd != "at" && cmd != "select" && cmd != "undo" {
		ed.home()
	}
	switch cmd {
	case "type":
		s, err := strconv.Unquote(`"` + arg + `"`)
		if err != nil {
			return err
		}
		log.Printf("typing %q", s)
		return ed.sel().OnTyping(gr, s, 0, ed.props.Ws)
	case "key":
		f := strings.Fields(arg)
		if len(f) == 0 {
			return fmt.Errorf("no key")
		}
		k, ok := keys[f[0]]
		if !ok {
			return fmt.Errorf("unknown key %q", f[0])
		}
		var ss selection.ShiftStatus
		for _, m := range f[1:] {
			bit, ok := mods[m]
			if !ok {
				return fmt.Errorf("unknown modifier %q", m)
			}
			ss |= bit
		}
		handled, err := ed.sel().OnExtendedKey(gr, k, ss)
		log.Printf("key %s: handled %v", arg, handled)
		return err
	case "at":
		var p, i int
		if _, err := fmt.Sscan(arg, &p, &i); err != nil {
			return err
		}
		return ed.place(p, i)
	case "select":
		var pa, ia, pe, ie int
		if _, err := fmt.Sscan(arg, &pa, &ia, &pe, &ie); err != nil {
			return err
		}
		return ed.selectRange(pa, ia, pe, ie)
	case "copy":
		str, err := ed.sel().GetSelectionString("")
		if err != nil {
			return err
		}
		return clipboard.WriteAll(str.Text())
	case "paste":
		txt, err := clipboard.ReadAll()
		if err != nil {
			return err
		}
		return ed.sel().ReplaceWithTsString(rich.Plain(rich.NormalizeText(txt), ed.props))
	case "undo":
		if s := ed.sel(); s != nil {
			if _, err := s.Commit(); err != nil {
				return err
			}
		}
		if !ed.c.Undo() {
			return fmt.Errorf("nothing to undo")
		}
		return nil
	}
	return fmt.Errorf("unknown command %q", cmd)
}

package output

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

var (
	errXref        = errors.New("xref が見つかりません")
	xobjectRef     = regexp.MustCompile(`/I([0-9a-f]+) (\d+) 0 R`)
	startxrefToken = []byte("\nstartxref\n")
)

const resourceDictObj = 2

type pdfObject struct {
	num  int
	data []byte // "n 0 obj\n" から次のオブジェクトの直前まで
}

func imageHeader(num int) []byte {
	return []byte(fmt.Sprintf("%d 0 obj\n<</Type /XObject\n/Subtype /Image\n", num))
}

func objHeader(num int) []byte {
	return []byte(fmt.Sprintf("%d 0 obj\n", num))
}

// canonicalImageOrder は gofpdf の出力の画像オブジェクトを、リソース辞書の並び（画像 ID 順）で
// 番号を振り直して並べます。gofpdf は同じ幅の画像を map の順に書き出すため、これがないと
// 同じ入力でも出力が毎回変わります。画像が1枚以下なら data をそのまま返します。
func canonicalImageOrder(data []byte) ([]byte, error) {
	objs, first, xrefOff, err := splitObjects(data)
	if err != nil {
		return nil, err
	}

	var slots []int // objs 内の画像オブジェクトの位置
	var nums []int
	resIdx := -1
	for i, o := range objs {
		if bytes.HasPrefix(o.data, imageHeader(o.num)) {
			slots = append(slots, i)
			nums = append(nums, o.num)
		}
		if o.num == resourceDictObj {
			resIdx = i
		}
	}
	if len(slots) < 2 {
		return data, nil
	}
	if resIdx < 0 {
		return nil, errors.New("リソース辞書が見つかりません")
	}

	isImage := make(map[int]bool, len(nums))
	for _, n := range nums {
		isImage[n] = true
	}
	sort.Ints(nums)
	renum := make(map[int]int, len(nums))
	for _, m := range xobjectRef.FindAllSubmatch(objs[resIdx].data, -1) {
		old, _ := strconv.Atoi(string(m[2]))
		if _, seen := renum[old]; seen || !isImage[old] {
			continue
		}
		renum[old] = nums[len(renum)]
	}
	if len(renum) != len(nums) {
		return nil, fmt.Errorf("リソース辞書の画像参照が一致しません (%d / %d)", len(renum), len(nums))
	}

	objs[resIdx].data = xobjectRef.ReplaceAllFunc(objs[resIdx].data, func(ref []byte) []byte {
		m := xobjectRef.FindSubmatch(ref)
		old, _ := strconv.Atoi(string(m[2]))
		n, ok := renum[old]
		if !ok {
			return ref
		}
		return []byte(fmt.Sprintf("/I%s %d 0 R", m[1], n))
	})

	images := make([]pdfObject, 0, len(slots))
	for _, i := range slots {
		o := objs[i]
		n := renum[o.num]
		body := o.data[len(objHeader(o.num)):]
		images = append(images, pdfObject{num: n, data: append(objHeader(n), body...)})
	}
	sort.Slice(images, func(a, b int) bool { return images[a].num < images[b].num })
	for k, i := range slots {
		objs[i] = images[k]
	}

	return assemble(data, objs, first, xrefOff)
}

// splitObjects は xref を読み、ファイル上の順にオブジェクトを切り出します。
// 先頭オブジェクトの位置と xref の位置も返します。
func splitObjects(data []byte) (objs []pdfObject, first, xrefOff int, err error) {
	xrefOff, _, err = startxref(data)
	if err != nil {
		return nil, 0, 0, err
	}
	head := []byte("xref\n0 ")
	if !bytes.HasPrefix(data[xrefOff:], head) {
		return nil, 0, 0, errXref
	}
	p := xrefOff + len(head)
	nl := bytes.IndexByte(data[p:], '\n')
	if nl < 0 {
		return nil, 0, 0, errXref
	}
	size, err := strconv.Atoi(string(data[p : p+nl]))
	if err != nil || size < 2 {
		return nil, 0, 0, errXref
	}
	entries := p + nl + 1 + xrefEntryLen // 0 番（free）を飛ばす
	if entries+(size-1)*xrefEntryLen > len(data) {
		return nil, 0, 0, errXref
	}

	type loc struct{ num, off int }
	locs := make([]loc, 0, size-1)
	for n := 1; n < size; n++ {
		e := data[entries+(n-1)*xrefEntryLen:][:10]
		off, err := strconv.Atoi(string(e))
		if err != nil || off <= 0 || off >= xrefOff {
			return nil, 0, 0, fmt.Errorf("%w: %d 番のオフセットが不正です", errXref, n)
		}
		locs = append(locs, loc{n, off})
	}
	sort.Slice(locs, func(a, b int) bool { return locs[a].off < locs[b].off })

	objs = make([]pdfObject, len(locs))
	for i, l := range locs {
		next := xrefOff
		if i+1 < len(locs) {
			next = locs[i+1].off
		}
		if !bytes.HasPrefix(data[l.off:], objHeader(l.num)) {
			return nil, 0, 0, fmt.Errorf("%w: %d 番の位置にオブジェクトがありません", errXref, l.num)
		}
		objs[i] = pdfObject{num: l.num, data: append([]byte(nil), data[l.off:next]...)}
	}
	return objs, locs[0].off, xrefOff, nil
}

// startxref は startxref の値と、その値の行の直後の位置を返します。
func startxref(data []byte) (off, tail int, err error) {
	p := bytes.LastIndex(data, startxrefToken)
	if p < 0 {
		return 0, 0, errXref
	}
	p += len(startxrefToken)
	nl := bytes.IndexByte(data[p:], '\n')
	if nl < 0 {
		return 0, 0, errXref
	}
	off, err = strconv.Atoi(string(data[p : p+nl]))
	if err != nil || off <= 0 || off >= len(data) {
		return 0, 0, errXref
	}
	return off, p + nl, nil
}

// "%010d 00000 n \n"
const xrefEntryLen = 20

// assemble はオブジェクトを並べ直し、xref と startxref を作り直します。
func assemble(orig []byte, objs []pdfObject, first, xrefOff int) ([]byte, error) {
	trailer := bytes.Index(orig[xrefOff:], []byte("trailer\n"))
	sx := bytes.LastIndex(orig, startxrefToken)
	_, tail, err := startxref(orig)
	if trailer < 0 || err != nil {
		return nil, errXref
	}

	var out bytes.Buffer
	out.Grow(len(orig))
	out.Write(orig[:first])
	offsets := make([]int, len(objs)+1)
	for _, o := range objs {
		offsets[o.num] = out.Len()
		out.Write(o.data)
	}
	newXref := out.Len()
	fmt.Fprintf(&out, "xref\n0 %d\n", len(objs)+1)
	out.WriteString("0000000000 65535 f \n")
	for n := 1; n <= len(objs); n++ {
		fmt.Fprintf(&out, "%010d 00000 n \n", offsets[n])
	}
	out.Write(orig[xrefOff+trailer : sx+len(startxrefToken)])
	out.WriteString(strconv.Itoa(newXref))
	out.Write(orig[tail:])
	return out.Bytes(), nil
}

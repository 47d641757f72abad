package io

import "ember/emberos/fault"

// Value is the closed set of element value types.
type Value interface {
	~bool | ~uint32 | ~int32 | ~string | ~float32
}

func elemOf[T Value]() Elem {
	var zero T
	switch any(zero).(type) {
	case bool:
		return ElemBool
	case uint32:
		return ElemU32
	case int32:
		return ElemI32
	case string:
		return ElemText
	case float32:
		return ElemF32
	}
	return ElemNone
}

func fromWord[T Value](w Word) T {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		*p = w.Bool
	case *uint32:
		*p = w.U32
	case *int32:
		*p = w.I32
	case *string:
		*p = w.Text
	case *float32:
		*p = w.F32
	}
	return out
}

func toWord[T Value](v T) Word {
	switch x := any(v).(type) {
	case bool:
		return BoolWord(x)
	case uint32:
		return U32Word(x)
	case int32:
		return I32Word(x)
	case string:
		return TextWord(x)
	case float32:
		return F32Word(x)
	}
	return Word{}
}

// Get reads the element's value as T. The element must carry T's tag as its
// input element type; a mismatch is a contract fault. With the print flag
// set the value is rendered through the print sink before return.
func Get[T Value](in Input) T {
	b := in.Base()
	fault.Require(b.inElem == elemOf[T](), fault.InvalidType)

	w := in.Produce()
	if b.PrintIO {
		b.print(w.format(), DirInput)
	}
	return fromWord[T](w)
}

// Set writes v through the element. The dual of Get.
func Set[T Value](out Output, v T) {
	b := out.Base()
	fault.Require(b.outElem == elemOf[T](), fault.InvalidType)

	w := toWord(v)
	if b.PrintIO {
		b.print(w.format(), DirOutput)
	}
	out.Consume(w)
}

// InElem exposes the input element tag for command-boundary dispatch.
func InElem(in Input) Elem { return in.Base().inElem }

// OutElem exposes the output element tag for command-boundary dispatch.
func OutElem(out Output) Elem { return out.Base().outElem }

// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package der

import (
	"fmt"
	"testing"
)

func ExampleTag_String() {
	t1 := Tag{Class: ClassApplication, Number: 17}
	t2 := ContextSpecificTag(8, true)
	t3 := Universal(TagInteger)
	fmt.Println(t1.String())
	fmt.Println(t2.String())
	fmt.Println(t3.String())
	// Output:
	// [APPLICATION 17]
	// [8]
	// [UNIVERSAL 2]
}

func TestClass_IsValid(t *testing.T) {
	for _, c := range []Class{ClassUniversal, ClassApplication, ClassContextSpecific, ClassPrivate} {
		if !c.IsValid() {
			t.Errorf("%v.IsValid() = false, want true", c)
		}
	}
	if Class(4).IsValid() {
		t.Errorf("Class(4).IsValid() = true, want false")
	}
}

func TestTag_Equality(t *testing.T) {
	if Universal(TagSequence) == (Tag{Class: ClassUniversal, Constructed: true, Number: TagSequence}) {
		t.Errorf("primitive and constructed tags compare equal")
	}
	if got := (Tag{Class: ClassPrivate, Number: 1000}).String(); got != "[PRIVATE 1000]" {
		t.Errorf("String() = %q, want %q", got, "[PRIVATE 1000]")
	}
}

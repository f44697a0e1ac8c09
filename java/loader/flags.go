package loader

import "strings"

// Flags are JVM access flags. The bit values match the class file format.
type Flags uint16

const (
	AccPublic       Flags = 0x0001
	AccPrivate      Flags = 0x0002
	AccProtected    Flags = 0x0004
	AccStatic       Flags = 0x0008
	AccFinal        Flags = 0x0010
	AccSynchronized Flags = 0x0020
	AccVolatile     Flags = 0x0040
	AccVarargs      Flags = 0x0080
	AccTransient    Flags = 0x0080
	AccNative       Flags = 0x0100
	AccInterface    Flags = 0x0200
	AccAbstract     Flags = 0x0400
	AccStrict       Flags = 0x0800
	AccSynthetic    Flags = 0x1000
)

func (f Flags) IsPublic() bool    { return f&AccPublic != 0 }
func (f Flags) IsPrivate() bool   { return f&AccPrivate != 0 }
func (f Flags) IsProtected() bool { return f&AccProtected != 0 }
func (f Flags) IsStatic() bool    { return f&AccStatic != 0 }
func (f Flags) IsFinal() bool     { return f&AccFinal != 0 }
func (f Flags) IsNative() bool    { return f&AccNative != 0 }
func (f Flags) IsVarargs() bool   { return f&AccVarargs != 0 }
func (f Flags) IsInterface() bool { return f&AccInterface != 0 }
func (f Flags) IsAbstract() bool  { return f&AccAbstract != 0 }
func (f Flags) IsSynthetic() bool { return f&AccSynthetic != 0 }

func (f Flags) String() string {
	var parts []string
	for _, fl := range []struct {
		flag Flags
		name string
	}{
		{AccPublic, "public"},
		{AccProtected, "protected"},
		{AccPrivate, "private"},
		{AccAbstract, "abstract"},
		{AccStatic, "static"},
		{AccFinal, "final"},
		{AccNative, "native"},
		{AccInterface, "interface"},
	} {
		if f&fl.flag != 0 {
			parts = append(parts, fl.name)
		}
	}
	return strings.Join(parts, " ")
}

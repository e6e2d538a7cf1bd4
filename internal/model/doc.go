// Package model is the object-oriented source model the importer produces.
//
// A Namespace owns TypeDecls (interfaces, coclass interfaces, classes and
// enums). A TypeDecl owns Members: Methods, Properties and Fields. Tags are
// the interop attributes the emitter prints in front of a declaration; they
// are distinct from the IDL attributes in package attr, which are consumed
// while the model is built.
package model

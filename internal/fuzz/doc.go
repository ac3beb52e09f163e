// Package fuzztests houses Go fuzz harnesses for the front end. The scanner
// harness feeds arbitrary bytes to the lexer and refiner; the front-end
// harness runs the whole pipeline through the driver. Both only guard
// against panics, hangs and broken tree invariants.
//
// Корпус: testdata/**/*.a68 плюс короткие встроенные программы.
package fuzztests

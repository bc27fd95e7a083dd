// Package sim is the reference execution backend: a CHP stabilizer
// tableau with a depolarizing noise model and scheduled Pauli injections.
package sim

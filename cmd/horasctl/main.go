// Command horasctl tareas de operación del servicio de horas: migraciones, roles base,
// usuarios, tokens de desarrollo y cálculo de turnos desde la terminal.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

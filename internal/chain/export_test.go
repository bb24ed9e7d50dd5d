package chain

var NewEVMWithClient = newEVMWithClient

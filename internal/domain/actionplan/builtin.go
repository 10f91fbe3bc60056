package actionplan

// BuiltinVersion tags the tables compiled into the binary.
const BuiltinVersion = "builtin-2024.1"

// Keywords are written the way inspectors type them in the field (Portuguese, no accents). Order is priority.
var builtinRules = map[Family][]Rule{
	FamilyExtinguisher: {
		{Keyword: "DESPRESSURIZADO", Action: "Recharge the extinguisher and check it for leaks."},
		{Keyword: "SEM CARGA", Action: "Recharge the extinguisher immediately."},
		{Keyword: "MANOMETRO", Action: "Replace the pressure gauge immediately."},
		{Keyword: "LACRE", Action: "Replace the tamper seal and verify the extinguisher charge."},
		{Keyword: "PINO", Action: "Replace the safety pin and reseal the extinguisher."},
		{Keyword: "MANGOTE", Action: "Replace the discharge hose."},
		{Keyword: "DIFUSOR", Action: "Replace the discharge nozzle."},
		{Keyword: "GATILHO", Action: "Repair or replace the valve trigger."},
		{Keyword: "VALVULA", Action: "Send the valve assembly for tier-2 maintenance."},
		{Keyword: "VAZAMENTO", Action: "Remove from service and send for tier-2 maintenance to locate the leak."},
		{Keyword: "AMASSADO", Action: "Remove from service and send the cylinder for hydrostatic testing."},
		{Keyword: "CORROSAO", Action: "Remove from service and send the cylinder for tier-3 maintenance."},
		{Keyword: "FERRUGEM", Action: "Remove from service and send the cylinder for tier-3 maintenance."},
		{Keyword: "ROTULO", Action: "Replace the instruction label."},
		{Keyword: "ETIQUETA", Action: "Replace the conformity label."},
		{Keyword: "SINALIZACAO", Action: "Restore the wall and floor signage."},
		{Keyword: "OBSTRU", Action: "Clear the access to the extinguisher."},
		{Keyword: "SUPORTE", Action: "Repair or replace the wall bracket."},
		{Keyword: "ALTURA", Action: "Reinstall the extinguisher at the regulatory mounting height."},
		{Keyword: "VENCID", Action: "Schedule the overdue maintenance immediately."},
		{Keyword: "PINTURA", Action: "Repaint the cylinder."},
	},
	FamilyHose: {
		{Keyword: "FURO", Action: "Remove the hose from service and replace it."},
		{Keyword: "RASGAD", Action: "Remove the hose from service and replace it."},
		{Keyword: "RESSECAD", Action: "Send the hose for hydrostatic testing or replace it."},
		{Keyword: "MOFO", Action: "Clean and dry the hose, then re-rack it."},
		{Keyword: "ESGUICHO", Action: "Replace the nozzle."},
		{Keyword: "ENGATE", Action: "Replace the storz coupling."},
		{Keyword: "CONEXAO", Action: "Repair or replace the coupling connection."},
		{Keyword: "DOBRAD", Action: "Re-rack the hose in the shelter without kinks."},
		{Keyword: "VENCID", Action: "Schedule the overdue hose maintenance immediately."},
	},
	FamilyShelter: {
		{Keyword: "PORTA", Action: "Repair the shelter door."},
		{Keyword: "VIDRO", Action: "Replace the shelter glass."},
		{Keyword: "CHAVE", Action: "Provide the storz key inside the shelter."},
		{Keyword: "CORROSAO", Action: "Treat the corrosion and repaint the shelter."},
		{Keyword: "SUJ", Action: "Clean the shelter."},
		{Keyword: "SINALIZACAO", Action: "Restore the shelter signage."},
		{Keyword: "OBSTRU", Action: "Clear the access to the shelter."},
	},
	FamilySCBA: {
		{Keyword: "CILINDRO", Action: "Remove the cylinder from service and send it for hydrostatic testing."},
		{Keyword: "PRESSAO", Action: "Recharge the air cylinder."},
		{Keyword: "MASCARA", Action: "Replace the face mask."},
		{Keyword: "VALVULA", Action: "Send the demand valve for maintenance."},
		{Keyword: "ALARME", Action: "Repair the low-pressure alarm."},
		{Keyword: "TIRANTE", Action: "Replace the harness straps."},
		{Keyword: "VENCID", Action: "Schedule the overdue SCBA maintenance immediately."},
	},
	FamilyEyewash: {
		{Keyword: "SEM AGUA", Action: "Restore the water supply immediately."},
		{Keyword: "VAZAO", Action: "Adjust the flow to the required rate."},
		{Keyword: "TURVA", Action: "Flush the line until the water runs clear."},
		{Keyword: "ACIONAMENTO", Action: "Repair the activation valve."},
		{Keyword: "VAZAMENTO", Action: "Repair the leak."},
		{Keyword: "TAMPA", Action: "Replace the nozzle dust covers."},
		{Keyword: "OBSTRU", Action: "Clear the access to the station."},
		{Keyword: "SINALIZACAO", Action: "Restore the station signage."},
	},
	FamilyFoamChamber: {
		{Keyword: "LGE", Action: "Check the foam concentrate and replenish it."},
		{Keyword: "PROPORCIONADOR", Action: "Service the foam proportioner."},
		{Keyword: "VALVULA", Action: "Service the chamber valve."},
		{Keyword: "VEDACAO", Action: "Replace the vapour seal."},
		{Keyword: "TELA", Action: "Clean or replace the air inlet screen."},
		{Keyword: "VAZAMENTO", Action: "Repair the leak."},
		{Keyword: "CORROSAO", Action: "Treat the corrosion and repaint the chamber."},
	},
	FamilyGasDetector: {
		{Keyword: "CALIBRA", Action: "Calibrate the detector."},
		{Keyword: "BUMP", Action: "Repeat the bump test and calibrate if it fails again."},
		{Keyword: "SENSOR", Action: "Replace the sensor."},
		{Keyword: "BATERIA", Action: "Replace or recharge the battery."},
		{Keyword: "DISPLAY", Action: "Send the detector for repair."},
		{Keyword: "ALARME", Action: "Test and repair the alarm outputs."},
		{Keyword: "VENCID", Action: "Schedule the overdue calibration immediately."},
	},
	FamilyAlarm: {
		{Keyword: "FALHA DE COMUNICACAO", Action: "Restore communication between the panel and the loop."},
		{Keyword: "CENTRAL", Action: "Service the fire alarm control panel."},
		{Keyword: "BATERIA", Action: "Replace the panel backup batteries."},
		{Keyword: "SIRENE", Action: "Repair or replace the sounder."},
		{Keyword: "ACIONADOR", Action: "Repair or replace the manual call point."},
		{Keyword: "DETECTOR", Action: "Clean or replace the detector head."},
		{Keyword: "FIACAO", Action: "Repair the loop wiring."},
		{Keyword: "LED", Action: "Replace the indicator LED."},
	},
}

// BuiltinTables returns fresh copies of the compiled-in tables.
func BuiltinTables() []Table {
	out := make([]Table, 0, len(Families))
	for _, family := range Families {
		out = append(out, BuiltinTable(family))
	}
	return out
}

func BuiltinTable(family Family) Table {
	rules := builtinRules[family]
	copied := make([]Rule, len(rules))
	copy(copied, rules)
	return Table{
		Family:  family,
		Version: BuiltinVersion,
		Rules:   copied,
	}
}
